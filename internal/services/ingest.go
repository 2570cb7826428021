package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// Attachment is one uploaded file from the multipart submission. Field must
// equal the placeholder token of the image item it resolves.
type Attachment struct {
	Field    string
	Filename string
	Open     func() (io.ReadCloser, error)
}

// IngestService turns a raw multipart submission into exactly one persisted
// Note, or nothing at all: every attachment is uploaded to the bucket,
// placeholder image values are substituted with the resulting URLs, and only
// then is the store asked to create. Any failure aborts the whole ingestion
// and cleans up already-uploaded objects best-effort.
type IngestService interface {
	Ingest(ctx context.Context, raw []byte, attachments []Attachment) (*types.Note, error)
}

type ingestService struct {
	log           *logger.Logger
	noteService   NoteService
	bucketService BucketService
	policy        notes.ValidatePolicy
}

func NewIngestService(baseLog *logger.Logger, noteService NoteService, bucketService BucketService, policy notes.ValidatePolicy) IngestService {
	return &ingestService{
		log:           baseLog.With("service", "IngestService"),
		noteService:   noteService,
		bucketService: bucketService,
		policy:        policy,
	}
}

func (s *ingestService) Ingest(ctx context.Context, raw []byte, attachments []Attachment) (*types.Note, error) {
	doc, err := notes.ParseDocument(raw)
	if err != nil {
		return nil, apierr.Validation("invalid note payload: %v", err)
	}
	if err := doc.Validate(s.policy); err != nil {
		return nil, err
	}

	// Every placeholder must have a file and every file a placeholder before
	// any byte leaves the machine; a mismatch detected after uploading would
	// just mean more cleanup.
	tokens := doc.ImagePlaceholders()
	byField := make(map[string]Attachment, len(attachments))
	for _, att := range attachments {
		if !notes.IsPlaceholder(att.Field) {
			return nil, apierr.Validation("attachment field %q is not a valid placeholder token", att.Field)
		}
		if _, ok := tokens[att.Field]; !ok {
			return nil, apierr.Validation("attachment %q does not match any image item", att.Field)
		}
		if _, dup := byField[att.Field]; dup {
			return nil, apierr.Validation("duplicate attachment for %q", att.Field)
		}
		byField[att.Field] = att
	}
	for token := range tokens {
		if _, ok := byField[token]; !ok {
			return nil, apierr.Validation("image item %q has no attached file", token)
		}
	}

	draftID := uuid.New()
	urls, uploadedKeys, uploadErr := s.uploadAll(ctx, draftID, byField)
	if uploadErr != nil {
		s.cleanup(uploadedKeys)
		return nil, apierr.Upload(fmt.Errorf("ingestion aborted: %w", uploadErr))
	}

	// Resolution keys by token, never by completion order, so the stored
	// document is the same regardless of network timing.
	if unresolved := doc.ResolveImages(urls); len(unresolved) > 0 {
		s.cleanup(uploadedKeys)
		return nil, apierr.Upload(fmt.Errorf("unresolved image placeholders: %v", unresolved))
	}

	note, err := s.noteService.Create(ctx, doc)
	if err != nil {
		s.cleanup(uploadedKeys)
		return nil, err
	}
	return note, nil
}

// uploadAll pushes every attachment concurrently. Concurrency is bounded only
// by the number of files; the bucket client applies its own limits.
func (s *ingestService) uploadAll(ctx context.Context, draftID uuid.UUID, byField map[string]Attachment) (map[string]string, []string, error) {
	var mu sync.Mutex
	urls := make(map[string]string, len(byField))
	keys := make([]string, 0, len(byField))

	g, gctx := errgroup.WithContext(ctx)
	for _, att := range byField {
		att := att
		g.Go(func() error {
			rc, err := att.Open()
			if err != nil {
				return fmt.Errorf("open attachment %q: %w", att.Field, err)
			}
			defer rc.Close()

			key := fmt.Sprintf("notes/%s/%s_%d%s", draftID, att.Field, time.Now().UnixNano(), path.Ext(att.Filename))
			if err := s.bucketService.UploadFile(gctx, key, rc); err != nil {
				return fmt.Errorf("upload attachment %q: %w", att.Field, err)
			}

			mu.Lock()
			urls[att.Field] = s.bucketService.GetPublicURL(key)
			keys = append(keys, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, keys, err
	}
	return urls, keys, nil
}

// cleanup deletes already-uploaded objects after a failed ingestion. Failures
// here are logged and swallowed; they must not mask the original error.
func (s *ingestService) cleanup(keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.bucketService.DeleteFile(ctx, key); err != nil {
			s.log.Warn("Failed to clean up uploaded object after aborted ingestion", "key", key, "error", err)
		}
	}
}
