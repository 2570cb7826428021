package types

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Company      *Company   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	FullName     string     `gorm:"column:full_name;not null" json:"fullName"`
	Email        string     `gorm:"column:email" json:"email,omitempty"`
	Designation  string     `gorm:"column:designation;not null" json:"designation"`
	LinkedIn     string     `gorm:"column:linkedin" json:"linkedIn,omitempty"`
	Twitter      string     `gorm:"column:twitter" json:"twitter,omitempty"`
	GitHub       string     `gorm:"column:github" json:"github,omitempty"`
	PhoneNumber  string     `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	SuccessLevel int        `gorm:"column:success_level;not null;default:5" json:"successLevel"`
	AvatarKey    string     `gorm:"column:avatar_key" json:"-"`
	AvatarURL    string     `gorm:"column:avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Employee) TableName() string { return "employee" }
