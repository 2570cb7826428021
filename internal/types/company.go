package types

import (
	"time"

	"github.com/google/uuid"
)

type CompanyType string

const (
	CompanyStartup    CompanyType = "Startup"
	CompanyService    CompanyType = "Service"
	CompanyProduct    CompanyType = "Product"
	CompanyGovernment CompanyType = "Government"
	CompanyFreelance  CompanyType = "Freelance"
)

func (t CompanyType) Valid() bool {
	switch t {
	case CompanyStartup, CompanyService, CompanyProduct, CompanyGovernment, CompanyFreelance:
		return true
	}
	return false
}

type SalaryBand string

const (
	SalaryUnder2  SalaryBand = "Under 2 LPA"
	Salary2To5    SalaryBand = "2 - 5 LPA"
	Salary5To10   SalaryBand = "5 - 10 LPA"
	SalaryOver10  SalaryBand = "Over 10 LPA"
)

func (b SalaryBand) Valid() bool {
	switch b {
	case SalaryUnder2, Salary2To5, Salary5To10, SalaryOver10:
		return true
	}
	return false
}

type Company struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string      `gorm:"column:name;not null;index" json:"name"`
	Website     string      `gorm:"column:website;not null" json:"website"`
	Industry    string      `gorm:"column:industry" json:"industry,omitempty"`
	Location    string      `gorm:"column:location" json:"location,omitempty"`
	Description string      `gorm:"column:description" json:"description,omitempty"`
	LinkedIn    string      `gorm:"column:linkedin" json:"linkedIn,omitempty"`
	CareersPage string      `gorm:"column:careers_page" json:"careersPage,omitempty"`
	Type        CompanyType `gorm:"column:type;not null;default:'Startup'" json:"type"`
	SalaryBand  SalaryBand  `gorm:"column:salary_band;not null;default:'Under 2 LPA'" json:"averageSalaryBand"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Company) TableName() string { return "company" }
