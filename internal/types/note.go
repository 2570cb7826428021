package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/prepdeck/prepdeck-backend/internal/notes"
)

// Note is the persisted aggregate. Question, solutions, and tags live in
// JSONB columns; the heading is denormalized into its own column so listing
// can filter on it without digging into the document.
type Note struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Heading     string         `gorm:"column:heading;not null;index" json:"-"`
	Question    datatypes.JSON `gorm:"column:question;type:jsonb;not null" json:"question"`
	Solutions   datatypes.JSON `gorm:"column:solutions;type:jsonb" json:"solutions,omitempty"`
	Category    string         `gorm:"column:category;index" json:"category,omitempty"`
	SubCategory string         `gorm:"column:sub_category;index" json:"subCategory,omitempty"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	Difficulty  string         `gorm:"column:difficulty;not null;default:'Medium';index" json:"difficulty"`
	Source      string         `gorm:"column:source" json:"source,omitempty"`
	Video       string         `gorm:"column:video" json:"video,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Note) TableName() string { return "note" }

// NoteFromDocument flattens a validated document into row form.
func NoteFromDocument(doc *notes.Document) (*Note, error) {
	questionJSON, err := json.Marshal(doc.Question)
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}
	solutionsJSON, err := json.Marshal(doc.Solutions)
	if err != nil {
		return nil, fmt.Errorf("encode solutions: %w", err)
	}
	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return &Note{
		Heading:     doc.Question.Heading,
		Question:    datatypes.JSON(questionJSON),
		Solutions:   datatypes.JSON(solutionsJSON),
		Category:    doc.Category,
		SubCategory: doc.SubCategory,
		Tags:        datatypes.JSON(tagsJSON),
		Difficulty:  string(doc.Difficulty),
		Source:      doc.Source,
		Video:       doc.Video,
	}, nil
}

// Document reassembles the structured document from the row.
func (n *Note) Document() (*notes.Document, error) {
	doc := &notes.Document{
		Category:    n.Category,
		SubCategory: n.SubCategory,
		Difficulty:  notes.Difficulty(n.Difficulty),
		Source:      n.Source,
		Video:       n.Video,
	}
	if len(n.Question) > 0 {
		if err := json.Unmarshal(n.Question, &doc.Question); err != nil {
			return nil, fmt.Errorf("decode question: %w", err)
		}
	}
	if len(n.Solutions) > 0 {
		if err := json.Unmarshal(n.Solutions, &doc.Solutions); err != nil {
			return nil, fmt.Errorf("decode solutions: %w", err)
		}
	}
	if len(n.Tags) > 0 {
		if err := json.Unmarshal(n.Tags, &doc.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return doc, nil
}

// TagList decodes just the tags column; a broken column yields an empty list
// rather than an error because tags are display-only.
func (n *Note) TagList() []string {
	var tags []string
	if len(n.Tags) > 0 {
		_ = json.Unmarshal(n.Tags, &tags)
	}
	return tags
}
