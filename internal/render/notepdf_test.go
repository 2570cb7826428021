package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

func testNote(t *testing.T, doc *notes.Document) *types.Note {
	t.Helper()
	note, err := types.NoteFromDocument(doc)
	require.NoError(t, err)
	return note
}

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	doc := &notes.Document{
		Question: notes.Question{
			Heading:     "Two Sum!",
			Description: "Given an array of integers, return indices of the two numbers adding to the target.",
			Examples: []notes.ContentGroup{
				{Items: []notes.ContentItem{{Kind: notes.ItemText, Value: "Input: [2,7,11,15], target 9"}}},
			},
		},
		Solutions: []notes.ContentGroup{
			{Items: []notes.ContentItem{{Kind: notes.ItemCode, Value: "def two_sum(nums, t):\n    seen = {}\n    ...", Language: "python"}}},
		},
		Category:   "Algorithms",
		Tags:       []string{"arrays", "hashmap"},
		Difficulty: notes.DifficultyEasy,
	}

	r := NewNoteRenderer(DefaultConfig(), logger.NewNop())
	out, err := r.Render(context.Background(), testNote(t, doc))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF")))
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "two-sum.pdf", out.Filename)
}

func TestRenderEmbedsFetchedImages(t *testing.T) {
	doc := &notes.Document{
		Question: notes.Question{
			Heading: "Diagram Question",
			Examples: []notes.ContentGroup{
				{Items: []notes.ContentItem{{Kind: notes.ItemImage, Value: "https://cdn.example.com/diagram.png"}}},
			},
		},
	}
	data := pngFixture(t, 40, 30)

	r := NewNoteRenderer(DefaultConfig(), logger.NewNop()).WithFetcher(
		func(ctx context.Context, url string) (*FetchedImage, error) {
			assert.Equal(t, "https://cdn.example.com/diagram.png", url)
			return &FetchedImage{Data: data, Type: "PNG", Width: 40, Height: 30}, nil
		})

	out, err := r.Render(context.Background(), testNote(t, doc))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF")))
}

// A dead image URL degrades that one item to a placeholder; the rest of the
// document still renders.
func TestRenderSurvivesImageFailure(t *testing.T) {
	doc := &notes.Document{
		Question: notes.Question{
			Heading: "Broken Image",
			Examples: []notes.ContentGroup{
				{Items: []notes.ContentItem{
					{Kind: notes.ItemText, Value: "before"},
					{Kind: notes.ItemImage, Value: "https://cdn.example.com/gone.png"},
					{Kind: notes.ItemText, Value: "after"},
				}},
			},
		},
	}

	r := NewNoteRenderer(DefaultConfig(), logger.NewNop()).WithFetcher(
		func(ctx context.Context, url string) (*FetchedImage, error) {
			return nil, fmt.Errorf("connection refused")
		})

	out, err := r.Render(context.Background(), testNote(t, doc))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF")))
}

func TestRenderLongCodePaginates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "line%d := compute(%d)\n", i, i)
	}
	doc := &notes.Document{
		Question: notes.Question{Heading: "Long Solution"},
		Solutions: []notes.ContentGroup{
			{Items: []notes.ContentItem{{Kind: notes.ItemCode, Value: b.String(), Language: "go"}}},
		},
	}

	r := NewNoteRenderer(DefaultConfig(), logger.NewNop())
	out, err := r.Render(context.Background(), testNote(t, doc))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF")))
}

func TestRenderCancelledContext(t *testing.T) {
	doc := &notes.Document{Question: notes.Question{Heading: "h"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewNoteRenderer(DefaultConfig(), logger.NewNop())
	_, err := r.Render(ctx, testNote(t, doc))
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeRender))
}

func TestRenderUndecodableNote(t *testing.T) {
	note := &types.Note{Question: []byte(`{not json`)}
	r := NewNoteRenderer(DefaultConfig(), logger.NewNop())
	_, err := r.Render(context.Background(), note)
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeRender))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "two-sum", slugify("Two Sum!"))
	assert.Equal(t, "a-b-c", slugify("  A/B/C  "))
	assert.Equal(t, "note", slugify("???"))
	assert.Equal(t, "note", slugify(""))
}
