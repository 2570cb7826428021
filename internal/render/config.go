// Package render turns a Note into a paginated PDF. The pipeline is
// deliberately staged: content items become blocks, blocks are measured,
// the layout engine partitions them into pages, and only then does anything
// get drawn.
package render

import "time"

// Config carries every styling knob the renderer needs. It is passed in
// explicitly; there is no process-wide style registry.
type Config struct {
	// Page geometry in points (A4 by default).
	PageWidth  float64
	PageHeight float64
	MarginX    float64
	MarginY    float64

	BodyFont string
	CodeFont string

	TitleSize   float64
	SectionSize float64
	BodySize    float64
	CodeSize    float64
	SmallSize   float64

	// CodeCapLines bounds the height reserved for a code block. Lines past
	// the cap are still drawn and spill past the block's frame; see the code
	// block renderer.
	CodeCapLines int

	ImageTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageWidth:    595.28,
		PageHeight:   841.89,
		MarginX:      48,
		MarginY:      54,
		BodyFont:     "Helvetica",
		CodeFont:     "Courier",
		TitleSize:    20,
		SectionSize:  14,
		BodySize:     11,
		CodeSize:     9.5,
		SmallSize:    8.5,
		CodeCapLines: 60,
		ImageTimeout: 10 * time.Second,
	}
}

// ContentWidth is the horizontal space available to a block.
func (c Config) ContentWidth() float64 { return c.PageWidth - 2*c.MarginX }

// ContentHeight is the vertical budget of one page.
func (c Config) ContentHeight() float64 { return c.PageHeight - 2*c.MarginY }

func lineHeight(size float64) float64 { return size * 1.45 }
