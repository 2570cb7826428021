package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/notes"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// RenderedDoc is the finished document plus the response metadata the HTTP
// layer needs to stream it.
type RenderedDoc struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

type NoteRenderer struct {
	cfg   Config
	log   *logger.Logger
	fetch ImageFetcher
}

func NewNoteRenderer(cfg Config, baseLog *logger.Logger) *NoteRenderer {
	return &NoteRenderer{
		cfg:   cfg,
		log:   baseLog.With("service", "NoteRenderer"),
		fetch: HTTPImageFetcher(cfg.ImageTimeout),
	}
}

// WithFetcher swaps the image fetcher. Tests use this to stay off the network.
func (r *NoteRenderer) WithFetcher(fetch ImageFetcher) *NoteRenderer {
	r.fetch = fetch
	return r
}

// Render produces the full PDF for a note. Individual content items that fail
// to render (a dead image URL, an unknown item kind) degrade to placeholders;
// the only fatal errors are document-level: an undecodable note or a writer
// failure.
func (r *NoteRenderer) Render(ctx context.Context, note *types.Note) (*RenderedDoc, error) {
	doc, err := note.Document()
	if err != nil {
		return nil, apierr.Render(fmt.Errorf("note %s is not renderable: %w", note.ID, err))
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(doc.Question.Heading, true)
	pdf.SetAutoPageBreak(false, 0)

	blocks := r.buildBlocks(ctx, note, doc)
	measured := Measure(pdf, blocks, r.cfg.ContentWidth())
	pages := Paginate(measured, r.cfg.ContentHeight())

	for _, page := range pages {
		// A disconnected client stops page emission; nothing durable is
		// affected since rendering is read-only.
		if ctx.Err() != nil {
			return nil, apierr.Render(ctx.Err())
		}
		pdf.AddPage()
		y := r.cfg.MarginY
		for _, mb := range page {
			mb.Block.Draw(pdf, r.cfg.MarginX, y, r.cfg.ContentWidth())
			y += mb.Height
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apierr.Render(fmt.Errorf("write pdf: %w", err))
	}
	return &RenderedDoc{
		Bytes:       buf.Bytes(),
		ContentType: "application/pdf",
		Filename:    slugify(doc.Question.Heading) + ".pdf",
	}, nil
}

// buildBlocks flattens the note into the fixed document order: header,
// tags, examples, solutions, trailing metadata.
func (r *NoteRenderer) buildBlocks(ctx context.Context, note *types.Note, doc *notes.Document) []Block {
	cfg := r.cfg
	var blocks []Block

	blocks = append(blocks, newTextBlock(cfg, doc.Question.Heading, cfg.TitleSize, "B", 4))

	meta := metaLine(doc)
	if meta != "" {
		mb := newTextBlock(cfg, meta, cfg.SmallSize, "", 6)
		mb.r, mb.g, mb.b = 110, 110, 110
		blocks = append(blocks, mb)
	}
	if len(doc.Tags) > 0 {
		blocks = append(blocks, &tagsBlock{cfg: cfg, tags: doc.Tags})
	}
	blocks = append(blocks, &ruleBlock{padY: 4})

	if strings.TrimSpace(doc.Question.Description) != "" {
		blocks = append(blocks, newTextBlock(cfg, doc.Question.Description, cfg.BodySize, "", 10))
	}

	blocks = r.appendGroups(ctx, blocks, "Examples", "Example", doc.Question.Examples)
	blocks = r.appendGroups(ctx, blocks, "Solutions", "Solution", doc.Solutions)

	var trailing []string
	if doc.Source != "" {
		trailing = append(trailing, "Source: "+doc.Source)
	}
	if doc.Video != "" {
		trailing = append(trailing, "Video: "+doc.Video)
	}
	trailing = append(trailing, "Generated "+time.Now().UTC().Format(time.RFC1123))
	blocks = append(blocks, &ruleBlock{padY: 6})
	for _, line := range trailing {
		tb := newTextBlock(cfg, line, cfg.SmallSize, "", 2)
		tb.r, tb.g, tb.b = 110, 110, 110
		blocks = append(blocks, tb)
	}
	return blocks
}

func (r *NoteRenderer) appendGroups(ctx context.Context, blocks []Block, section, groupLabel string, groups []notes.ContentGroup) []Block {
	cfg := r.cfg
	hasItems := false
	for _, g := range groups {
		if len(g.Items) > 0 {
			hasItems = true
			break
		}
	}
	if !hasItems {
		return blocks
	}

	blocks = append(blocks, newTextBlock(cfg, section, cfg.SectionSize+2, "B", 6))
	for gi, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		if len(groups) > 1 {
			blocks = append(blocks, newTextBlock(cfg, fmt.Sprintf("%s %d", groupLabel, gi+1), cfg.SectionSize, "B", 4))
		}
		for _, item := range g.Items {
			blocks = append(blocks, r.itemBlock(ctx, item))
		}
		blocks = append(blocks, &spacerBlock{h: 8})
	}
	return blocks
}

// itemBlock dispatches on the content item kind. The switch is exhaustive
// over the union; anything else degrades to a placeholder instead of
// aborting the render.
func (r *NoteRenderer) itemBlock(ctx context.Context, item notes.ContentItem) Block {
	cfg := r.cfg
	switch item.Kind {
	case notes.ItemText:
		return newTextBlock(cfg, item.Value, cfg.BodySize, "", 8)
	case notes.ItemCode:
		return &codeBlock{cfg: cfg, code: item.Value, language: item.Language}
	case notes.ItemImage:
		img, err := r.fetch(ctx, item.Value)
		if err != nil {
			r.log.Warn("Image unavailable, substituting placeholder", "url", item.Value, "error", err)
			return &missingImageBlock{cfg: cfg, reason: err.Error()}
		}
		return &imageBlock{
			cfg:       cfg,
			name:      item.Value,
			data:      img.Data,
			imageType: img.Type,
			natW:      float64(img.Width) * 0.75, // px at 96dpi to pt
			natH:      float64(img.Height) * 0.75,
			padBottom: 8,
		}
	default:
		r.log.Warn("Unknown content item kind, substituting placeholder", "kind", string(item.Kind))
		return &missingImageBlock{cfg: cfg, reason: "unknown content kind"}
	}
}

func metaLine(doc *notes.Document) string {
	var parts []string
	if doc.Category != "" {
		cat := doc.Category
		if doc.SubCategory != "" {
			cat += " / " + doc.SubCategory
		}
		parts = append(parts, cat)
	}
	parts = append(parts, "Difficulty: "+string(doc.Difficulty.Normalize()))
	return strings.Join(parts, "  ·  ")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "note"
	}
	if len(out) > 60 {
		out = strings.Trim(out[:60], "-")
	}
	return out
}
