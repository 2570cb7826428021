package render

// Measured pairs a block with its height as established during the measure
// pass. The layout engine never re-measures; it only partitions.
type Measured struct {
	Block  Block
	Height float64
}

// Paginate partitions blocks into pages so that no page's cumulative height
// exceeds pageHeight, except when a single block is taller than the page: it
// then sits alone on its own page, unclipped. Order is preserved exactly and
// no block is dropped or duplicated. An empty input yields zero pages, not
// one empty page.
func Paginate(blocks []Measured, pageHeight float64) [][]Measured {
	if len(blocks) == 0 {
		return nil
	}
	var pages [][]Measured
	var current []Measured
	used := 0.0
	for _, b := range blocks {
		if len(current) > 0 && used+b.Height > pageHeight {
			pages = append(pages, current)
			current = nil
			used = 0
		}
		current = append(current, b)
		used += b.Height
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}
