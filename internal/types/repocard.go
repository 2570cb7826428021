package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RepoCard is one saved entry in the external-repository directory. Metadata
// is snapshotted from the GitHub API at save time; it is not kept fresh.
type RepoCard struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Tag         string         `gorm:"column:tag;not null;default:'General';index" json:"tag"`
	FullName    string         `gorm:"column:full_name;not null;uniqueIndex" json:"full_name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	HTMLURL     string         `gorm:"column:html_url;not null" json:"html_url"`
	Stars       int            `gorm:"column:stars;not null;default:0" json:"stars"`
	Forks       int            `gorm:"column:forks;not null;default:0" json:"forks"`
	OpenIssues  int            `gorm:"column:open_issues;not null;default:0" json:"issues"`
	Language    string         `gorm:"column:language" json:"language,omitempty"`
	Owner       string         `gorm:"column:owner;not null" json:"owner"`
	Topics      datatypes.JSON `gorm:"column:topics;type:jsonb" json:"topics,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (RepoCard) TableName() string { return "repo_card" }
