package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
)

// newTestDB opens an in-memory SQLite database. The schema is created by hand
// because the production column defaults are Postgres expressions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		CREATE TABLE note (
			id TEXT PRIMARY KEY,
			heading TEXT NOT NULL,
			question TEXT NOT NULL,
			solutions TEXT,
			category TEXT,
			sub_category TEXT,
			tags TEXT,
			difficulty TEXT NOT NULL DEFAULT 'Medium',
			source TEXT,
			video TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`).Error)
	t.Cleanup(func() {
		db.Exec(`DROP TABLE note`)
	})
	return db
}

func newNoteService(t *testing.T) NoteService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return NewNoteService(db, log, repos.NewNoteRepo(db, log), notes.ValidatePolicy{RequireCategory: true})
}

func sampleDoc(heading, category string, tags ...string) *notes.Document {
	return &notes.Document{
		Question: notes.Question{
			Heading: heading,
			Examples: []notes.ContentGroup{
				{Items: []notes.ContentItem{{Kind: notes.ItemText, Value: "example text"}}},
			},
		},
		Solutions: []notes.ContentGroup{
			{Items: []notes.ContentItem{{Kind: notes.ItemCode, Value: "return 42", Language: "go"}}},
		},
		Category: category,
		Tags:     tags,
	}
}

func TestNoteCreateAndGet(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleDoc("Two Sum", "Algorithms", "arrays"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Two Sum", created.Heading)
	assert.Equal(t, "Medium", created.Difficulty)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	doc, err := got.Document()
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", doc.Question.Heading)
	assert.Equal(t, []string{"arrays"}, doc.Tags)
	assert.Equal(t, notes.DifficultyMedium, doc.Difficulty)
}

func TestNoteCreateRejectsInvalidDocument(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleDoc("", "Algorithms"))
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	_, err = svc.Create(ctx, sampleDoc("No Category", ""))
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	_, total, err := svc.List(ctx, repos.NoteFilter{}, repos.NotePage{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNoteGetNotFound(t *testing.T) {
	svc := newNoteService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestNoteListFilters(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	docs := []*notes.Document{
		sampleDoc("Two Sum", "Algorithms", "arrays", "hashmap"),
		sampleDoc("Reverse Linked List", "Data Structures", "linked-list"),
		sampleDoc("Three Sum", "Algorithms", "arrays", "two-pointers"),
	}
	docs[2].Difficulty = notes.DifficultyHard
	for _, d := range docs {
		_, err := svc.Create(ctx, d)
		require.NoError(t, err)
	}

	results, total, err := svc.List(ctx, repos.NoteFilter{Category: "Algorithms"}, repos.NotePage{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)

	results, total, err = svc.List(ctx, repos.NoteFilter{Difficulty: "Hard"}, repos.NotePage{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Three Sum", results[0].Heading)

	// Any-of tag membership.
	results, total, err = svc.List(ctx, repos.NoteFilter{Tags: []string{"hashmap", "linked-list"}}, repos.NotePage{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// Case-insensitive heading substring.
	results, total, err = svc.List(ctx, repos.NoteFilter{Search: "sum"}, repos.NotePage{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	results, total, err = svc.List(ctx, repos.NoteFilter{Search: "no such heading"}, repos.NotePage{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, results)
}

func TestNoteListPagination(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, sampleDoc("Question "+string(rune('A'+i)), "Algorithms"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	page1, total, err := svc.List(ctx, repos.NoteFilter{}, repos.NotePage{Page: 1, Limit: 2, SortAsc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "Question A", page1[0].Heading)

	page3, total, err := svc.List(ctx, repos.NoteFilter{}, repos.NotePage{Page: 3, Limit: 2, SortAsc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page3, 1)
	assert.Equal(t, "Question E", page3[0].Heading)
}

func TestNoteUpdatePartial(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleDoc("Two Sum", "Algorithms", "arrays"))
	require.NoError(t, err)

	hard := notes.DifficultyHard
	updated, err := svc.Update(ctx, created.ID, NoteUpdate{Difficulty: &hard})
	require.NoError(t, err)
	assert.Equal(t, "Hard", updated.Difficulty)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Two Sum", updated.Heading)
	assert.Equal(t, "Algorithms", updated.Category)
	assert.Equal(t, []string{"arrays"}, updated.TagList())
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestNoteUpdateCoercesDifficulty(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleDoc("Two Sum", "Algorithms"))
	require.NoError(t, err)

	bogus := notes.Difficulty("Legendary")
	updated, err := svc.Update(ctx, created.ID, NoteUpdate{Difficulty: &bogus})
	require.NoError(t, err)
	assert.Equal(t, "Medium", updated.Difficulty)
}

func TestNoteUpdateNotFound(t *testing.T) {
	svc := newNoteService(t)
	cat := "Algorithms"
	_, err := svc.Update(context.Background(), uuid.New(), NoteUpdate{Category: &cat})
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestNoteDeleteIsTerminal(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleDoc("Two Sum", "Algorithms"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}
