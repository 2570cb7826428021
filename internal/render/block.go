package render

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// Block is one atomic placement unit for paging: a block's internal lines may
// wrap, but the block itself is never split across pages.
type Block interface {
	// Height reports the vertical space the block will consume at the given
	// width. Fonts are set on doc as a side effect of measuring.
	Height(doc *fpdf.Fpdf, width float64) float64
	// Draw renders the block with its top-left corner at (x, y).
	Draw(doc *fpdf.Fpdf, x, y, width float64)
}

// Measure runs the measure pass over a block sequence.
func Measure(doc *fpdf.Fpdf, blocks []Block, width float64) []Measured {
	out := make([]Measured, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Measured{Block: b, Height: b.Height(doc, width)})
	}
	return out
}

// -------------------- text --------------------

type textBlock struct {
	cfg       Config
	text      string
	size      float64
	style     string // "", "B", "I"
	font      string
	padBottom float64
	r, g, b   int
}

func newTextBlock(cfg Config, text string, size float64, style string, padBottom float64) *textBlock {
	return &textBlock{cfg: cfg, text: text, size: size, style: style, font: cfg.BodyFont, padBottom: padBottom}
}

func (t *textBlock) setFont(doc *fpdf.Fpdf) {
	doc.SetFont(t.font, t.style, t.size)
}

func (t *textBlock) Height(doc *fpdf.Fpdf, width float64) float64 {
	t.setFont(doc)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	lines := doc.SplitText(tr(t.text), width)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return float64(len(lines))*lineHeight(t.size) + t.padBottom
}

func (t *textBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	t.setFont(doc)
	if t.r != 0 || t.g != 0 || t.b != 0 {
		doc.SetTextColor(t.r, t.g, t.b)
		defer doc.SetTextColor(0, 0, 0)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetXY(x, y)
	doc.MultiCell(width, lineHeight(t.size), tr(t.text), "", "L", false)
}

// -------------------- tags --------------------

type tagsBlock struct {
	cfg  Config
	tags []string
}

const tagChipHeight = 16.0

func (t *tagsBlock) Height(doc *fpdf.Fpdf, width float64) float64 {
	if len(t.tags) == 0 {
		return 0
	}
	// Chips flow onto extra rows when they outgrow the line.
	doc.SetFont(t.cfg.BodyFont, "", t.cfg.SmallSize)
	rows := 1
	xOff := 0.0
	for _, tag := range t.tags {
		w := doc.GetStringWidth(tag) + 14
		if xOff+w > width && xOff > 0 {
			rows++
			xOff = 0
		}
		xOff += w + 6
	}
	return float64(rows)*(tagChipHeight+4) + 8
}

func (t *tagsBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	if len(t.tags) == 0 {
		return
	}
	doc.SetFont(t.cfg.BodyFont, "", t.cfg.SmallSize)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetFillColor(235, 238, 245)
	doc.SetDrawColor(205, 210, 222)
	xOff := 0.0
	rowY := y
	for _, tag := range t.tags {
		w := doc.GetStringWidth(tag) + 14
		if xOff+w > width && xOff > 0 {
			rowY += tagChipHeight + 4
			xOff = 0
		}
		doc.RoundedRect(x+xOff, rowY, w, tagChipHeight, 4, "1234", "FD")
		doc.SetXY(x+xOff+7, rowY+tagChipHeight/2-t.cfg.SmallSize/2)
		doc.CellFormat(w-14, t.cfg.SmallSize, tr(tag), "", 0, "L", false, 0, "")
		xOff += w + 6
	}
	doc.SetDrawColor(0, 0, 0)
}

// -------------------- image --------------------

type imageBlock struct {
	cfg        Config
	name       string // registration key, unique per source
	data       []byte
	imageType  string // "PNG", "JPG", "GIF"
	natW       float64
	natH       float64
	padBottom  float64
	registered bool
}

func (i *imageBlock) scaled(width float64) (float64, float64) {
	w := i.natW
	if w > width {
		w = width
	}
	if i.natW <= 0 {
		return width, 0
	}
	h := i.natH * (w / i.natW)
	return w, h
}

func (i *imageBlock) Height(doc *fpdf.Fpdf, width float64) float64 {
	_, h := i.scaled(width)
	return h + i.padBottom
}

func (i *imageBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	w, h := i.scaled(width)
	opts := fpdf.ImageOptions{ImageType: i.imageType, ReadDpi: false}
	if !i.registered {
		doc.RegisterImageOptionsReader(i.name, opts, bytes.NewReader(i.data))
		i.registered = true
	}
	doc.ImageOptions(i.name, x, y, w, h, false, opts, 0, "")
}

// missingImageBlock stands in for an image that could not be fetched or
// decoded. The document render must survive a dead image URL.
type missingImageBlock struct {
	cfg    Config
	reason string
}

const missingImageHeight = 42.0

func (m *missingImageBlock) Height(doc *fpdf.Fpdf, width float64) float64 {
	return missingImageHeight + 8
}

func (m *missingImageBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	doc.SetDrawColor(190, 190, 190)
	doc.SetFillColor(248, 248, 248)
	doc.Rect(x, y, width, missingImageHeight, "FD")
	doc.SetFont(m.cfg.BodyFont, "I", m.cfg.SmallSize)
	doc.SetTextColor(130, 130, 130)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetXY(x, y+missingImageHeight/2-m.cfg.SmallSize/2)
	doc.CellFormat(width, m.cfg.SmallSize, tr("[ image unavailable ]"), "", 0, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(0, 0, 0)
}

// -------------------- code --------------------

type codeBlock struct {
	cfg      Config
	code     string
	language string
}

const codePad = 8.0

func (c *codeBlock) lines(doc *fpdf.Fpdf, width float64) []string {
	doc.SetFont(c.cfg.CodeFont, "", c.cfg.CodeSize)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return doc.SplitText(tr(c.code), width-2*codePad)
}

// Height reserves an envelope capped at CodeCapLines. Longer snippets keep
// the capped envelope and their remaining lines overflow the frame visually
// instead of truncating or breaking the layout.
func (c *codeBlock) Height(doc *fpdf.Fpdf, width float64) float64 {
	n := len(c.lines(doc, width))
	if n == 0 {
		n = 1
	}
	if c.cfg.CodeCapLines > 0 && n > c.cfg.CodeCapLines {
		n = c.cfg.CodeCapLines
	}
	h := float64(n)*lineHeight(c.cfg.CodeSize) + 2*codePad
	if c.language != "" {
		h += lineHeight(c.cfg.SmallSize)
	}
	return h + 10
}

func (c *codeBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	lines := c.lines(doc, width)
	top := y
	if c.language != "" {
		doc.SetFont(c.cfg.BodyFont, "B", c.cfg.SmallSize)
		doc.SetTextColor(90, 90, 90)
		doc.SetXY(x, top)
		doc.CellFormat(width, c.cfg.SmallSize, c.language, "", 0, "L", false, 0, "")
		doc.SetTextColor(0, 0, 0)
		top += lineHeight(c.cfg.SmallSize)
	}

	envLines := len(lines)
	if envLines == 0 {
		envLines = 1
	}
	if c.cfg.CodeCapLines > 0 && envLines > c.cfg.CodeCapLines {
		envLines = c.cfg.CodeCapLines
	}
	envH := float64(envLines)*lineHeight(c.cfg.CodeSize) + 2*codePad

	doc.SetFillColor(246, 247, 249)
	doc.SetDrawColor(215, 218, 224)
	doc.Rect(x, top, width, envH, "FD")
	doc.SetDrawColor(0, 0, 0)

	doc.SetFont(c.cfg.CodeFont, "", c.cfg.CodeSize)
	lineY := top + codePad
	for _, line := range lines {
		doc.SetXY(x+codePad, lineY)
		doc.CellFormat(width-2*codePad, c.cfg.CodeSize, line, "", 0, "L", false, 0, "")
		lineY += lineHeight(c.cfg.CodeSize)
	}
}

// -------------------- spacer --------------------

type spacerBlock struct{ h float64 }

func (s *spacerBlock) Height(doc *fpdf.Fpdf, width float64) float64 { return s.h }
func (s *spacerBlock) Draw(doc *fpdf.Fpdf, x, y, width float64)     {}

// -------------------- rule --------------------

type ruleBlock struct{ padY float64 }

func (r *ruleBlock) Height(doc *fpdf.Fpdf, width float64) float64 { return r.padY*2 + 1 }

func (r *ruleBlock) Draw(doc *fpdf.Fpdf, x, y, width float64) {
	doc.SetDrawColor(210, 210, 210)
	doc.Line(x, y+r.padY, x+width, y+r.padY)
	doc.SetDrawColor(0, 0, 0)
}
