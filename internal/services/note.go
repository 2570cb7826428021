package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// NoteUpdate is a partial update: nil fields keep their prior values,
// non-nil fields replace them wholesale.
type NoteUpdate struct {
	Question    *notes.Question       `json:"question,omitempty"`
	Solutions   *[]notes.ContentGroup `json:"solutions,omitempty"`
	Category    *string               `json:"category,omitempty"`
	SubCategory *string               `json:"subCategory,omitempty"`
	Tags        *[]string             `json:"tags,omitempty"`
	Difficulty  *notes.Difficulty     `json:"difficulty,omitempty"`
	Source      *string               `json:"source,omitempty"`
	Video       *string               `json:"video,omitempty"`
}

type NoteService interface {
	Create(ctx context.Context, doc *notes.Document) (*types.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Note, error)
	List(ctx context.Context, filter repos.NoteFilter, page repos.NotePage) ([]*types.Note, int64, error)
	Update(ctx context.Context, id uuid.UUID, update NoteUpdate) (*types.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noteService struct {
	db       *gorm.DB
	log      *logger.Logger
	noteRepo repos.NoteRepo
	policy   notes.ValidatePolicy
}

func NewNoteService(db *gorm.DB, baseLog *logger.Logger, noteRepo repos.NoteRepo, policy notes.ValidatePolicy) NoteService {
	return &noteService{
		db:       db,
		log:      baseLog.With("service", "NoteService"),
		noteRepo: noteRepo,
		policy:   policy,
	}
}

func (s *noteService) Create(ctx context.Context, doc *notes.Document) (*types.Note, error) {
	if err := doc.Validate(s.policy); err != nil {
		return nil, err
	}
	note, err := types.NoteFromDocument(doc)
	if err != nil {
		return nil, apierr.Store(err)
	}
	note.ID = uuid.New()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	created, err := s.noteRepo.Create(ctx, nil, note)
	if err != nil {
		s.log.Error("Failed to create note", "error", err)
		return nil, apierr.Store(err)
	}
	s.log.Info("Note created", "note_id", created.ID, "heading", created.Heading)
	return created, nil
}

func (s *noteService) Get(ctx context.Context, id uuid.UUID) (*types.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, nil, id)
	if err != nil {
		s.log.Error("Failed to fetch note", "note_id", id, "error", err)
		return nil, apierr.Store(err)
	}
	if note == nil {
		return nil, apierr.NotFound("note")
	}
	return note, nil
}

func (s *noteService) List(ctx context.Context, filter repos.NoteFilter, page repos.NotePage) ([]*types.Note, int64, error) {
	results, total, err := s.noteRepo.List(ctx, nil, filter, page)
	if err != nil {
		s.log.Error("Failed to list notes", "error", err)
		return nil, 0, apierr.Store(err)
	}
	return results, total, nil
}

func (s *noteService) Update(ctx context.Context, id uuid.UUID, update NoteUpdate) (*types.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if note == nil {
		return nil, apierr.NotFound("note")
	}
	doc, err := note.Document()
	if err != nil {
		return nil, apierr.Store(err)
	}

	if update.Question != nil {
		doc.Question = *update.Question
	}
	if update.Solutions != nil {
		doc.Solutions = *update.Solutions
	}
	if update.Category != nil {
		doc.Category = *update.Category
	}
	if update.SubCategory != nil {
		doc.SubCategory = *update.SubCategory
	}
	if update.Tags != nil {
		doc.Tags = *update.Tags
	}
	if update.Difficulty != nil {
		doc.Difficulty = *update.Difficulty
	}
	if update.Source != nil {
		doc.Source = *update.Source
	}
	if update.Video != nil {
		doc.Video = *update.Video
	}

	if err := doc.Validate(s.policy); err != nil {
		return nil, err
	}
	merged, err := types.NoteFromDocument(doc)
	if err != nil {
		return nil, apierr.Store(err)
	}
	merged.ID = note.ID
	merged.CreatedAt = note.CreatedAt
	merged.UpdatedAt = time.Now().UTC()

	saved, err := s.noteRepo.Update(ctx, nil, merged)
	if err != nil {
		s.log.Error("Failed to update note", "note_id", id, "error", err)
		return nil, apierr.Store(err)
	}
	return saved, nil
}

// Delete reports not-found rather than erroring when the id is absent, so a
// repeat delete gets the same terminal answer as the first.
func (s *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.noteRepo.DeleteByID(ctx, nil, id)
	if err != nil {
		s.log.Error("Failed to delete note", "note_id", id, "error", err)
		return apierr.Store(err)
	}
	if !deleted {
		return apierr.NotFound("note")
	}
	s.log.Info("Note deleted", "note_id", id)
	return nil
}
