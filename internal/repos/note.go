package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// NoteFilter narrows a listing. Zero values mean "no constraint".
type NoteFilter struct {
	Category    string
	SubCategory string
	Difficulty  string
	Tags        []string // note matches when it carries any of these
	Search      string   // case-insensitive substring of the question heading
}

// NotePage is offset pagination plus sort direction on created_at.
type NotePage struct {
	Page    int
	Limit   int
	SortAsc bool
}

type NoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error)
	List(ctx context.Context, tx *gorm.DB, filter NoteFilter, page NotePage) ([]*types.Note, int64, error)
	Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var note types.Note
	if err := transaction.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) List(ctx context.Context, tx *gorm.DB, filter NoteFilter, page NotePage) ([]*types.Note, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	// Total is counted against the filter alone, before pagination. Count and
	// Find get separately built queries so gorm clause state cannot leak
	// between them.
	var total int64
	countQ := applyNoteFilter(transaction.WithContext(ctx).Model(&types.Note{}), transaction, filter)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := applyNoteFilter(transaction.WithContext(ctx).Model(&types.Note{}), transaction, filter)

	order := "created_at DESC"
	if page.SortAsc {
		order = "created_at ASC"
	}
	limit := page.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if page.Page > 1 {
		offset = (page.Page - 1) * limit
	}

	var results []*types.Note
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func applyNoteFilter(q *gorm.DB, db *gorm.DB, filter NoteFilter) *gorm.DB {
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SubCategory != "" {
		q = q.Where("sub_category = ?", filter.SubCategory)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(heading) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(filter.Tags) > 0 {
		q = q.Where(tagMembership(db, filter.Tags))
	}
	return q
}

// tagMembership builds an any-of condition over the JSON tags column. The
// SQL differs per dialect: jsonb containment on Postgres, json_each on
// SQLite (the test database).
func tagMembership(db *gorm.DB, tags []string) *gorm.DB {
	dialect := db.Dialector.Name()
	cond := db.Session(&gorm.Session{NewDB: true})
	var combined *gorm.DB
	for _, tag := range tags {
		var clause *gorm.DB
		switch dialect {
		case "postgres":
			clause = cond.Where("tags @> ?", fmt.Sprintf(`[%q]`, tag))
		default:
			clause = cond.Where("EXISTS (SELECT 1 FROM json_each(note.tags) WHERE json_each.value = ?)", tag)
		}
		if combined == nil {
			combined = clause
		} else {
			combined = combined.Or(clause)
		}
	}
	return combined
}

func (r *noteRepo) Update(ctx context.Context, tx *gorm.DB, note *types.Note) (*types.Note, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Note{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
