package layout

import (
	"sort"

	"github.com/tsawler/strata/model"
)

// NeighborSet holds the nearest neighbor of a block in each of the four
// page directions, as block indices. -1 means no neighbor.
type NeighborSet struct {
	Left  int
	Right int
	Up    int
	Down  int
}

// WhitespaceLayout represents the gap structure of a page: column
// boundaries, paragraph and section breaks, and the per-block neighbor
// map feeding the spatial graph.
type WhitespaceLayout struct {
	// ColumnBoundaries are the X midpoints of qualifying column gaps,
	// left to right
	ColumnBoundaries []float64

	// ParagraphBoundaries are the Y midpoints of vertical gaps at least
	// ParagraphGapFactor average line heights tall
	ParagraphBoundaries []float64

	// SectionBoundaries are the Y midpoints of vertical gaps at least
	// SectionGapFactor average line heights tall. A section boundary is
	// not repeated in ParagraphBoundaries.
	SectionBoundaries []float64

	// Neighbors maps each block index to its four nearest neighbors
	Neighbors []NeighborSet

	// AverageLineHeight is the mean line height the thresholds derive from
	AverageLineHeight float64

	// PageWidth is the width of the page
	PageWidth float64

	// PageHeight is the height of the page
	PageHeight float64

	// Config is the configuration used for analysis
	Config WhitespaceConfig
}

// WhitespaceConfig holds configuration for whitespace analysis
type WhitespaceConfig struct {
	// GapThreshold is the minimum horizontal gap to count as a column
	// separator, as a fraction of page width (default: 0.15)
	GapThreshold float64

	// ParagraphGapFactor scales the average line height into the minimum
	// vertical gap marking a paragraph boundary (default: 1.5)
	ParagraphGapFactor float64

	// SectionGapFactor scales the average line height into the minimum
	// vertical gap marking a section boundary (default: 3.0)
	SectionGapFactor float64

	// OverlapTolerance expands boxes during the neighbor overlap tests,
	// in page units, so slightly misaligned blocks still count as
	// facing each other (default: 2.0)
	OverlapTolerance float64
}

// DefaultWhitespaceConfig returns sensible default configuration
func DefaultWhitespaceConfig() WhitespaceConfig {
	return WhitespaceConfig{
		GapThreshold:       0.15,
		ParagraphGapFactor: 1.5,
		SectionGapFactor:   3.0,
		OverlapTolerance:   2.0,
	}
}

// WhitespaceAnalyzer derives column, paragraph, and section boundaries
// from the gap statistics of a page's blocks.
type WhitespaceAnalyzer struct {
	config WhitespaceConfig
}

// NewWhitespaceAnalyzer creates a new analyzer with default configuration
func NewWhitespaceAnalyzer() *WhitespaceAnalyzer {
	return &WhitespaceAnalyzer{
		config: DefaultWhitespaceConfig(),
	}
}

// NewWhitespaceAnalyzerWithConfig creates an analyzer with custom configuration
func NewWhitespaceAnalyzerWithConfig(config WhitespaceConfig) *WhitespaceAnalyzer {
	return &WhitespaceAnalyzer{
		config: config,
	}
}

// Analyze derives the whitespace structure of a page from its blocks
func (a *WhitespaceAnalyzer) Analyze(blocks []*model.Block, pageWidth, pageHeight float64) *WhitespaceLayout {
	layout := &WhitespaceLayout{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     a.config,
	}
	if len(blocks) == 0 {
		return layout
	}

	// Step 1: Column boundaries from merged horizontal extents
	layout.ColumnBoundaries = a.columnBoundaries(blocks, pageWidth)

	// Step 2: Paragraph and section boundaries from merged vertical extents
	avgLineHeight := averageBlockLineHeight(blocks)
	layout.AverageLineHeight = avgLineHeight
	layout.ParagraphBoundaries, layout.SectionBoundaries = a.verticalBoundaries(blocks, avgLineHeight)

	// Step 3: Four-direction nearest-neighbor map
	layout.Neighbors = a.buildNeighbors(blocks)

	return layout
}

// interval is a 1-D closed extent used during gap merging
type interval struct {
	lo float64
	hi float64
}

// mergeIntervals sorts and merges overlapping intervals
func mergeIntervals(spans []interval) []interval {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].lo < spans[j].lo
	})

	merged := []interval{spans[0]}
	for _, span := range spans[1:] {
		last := &merged[len(merged)-1]
		if span.lo <= last.hi {
			if span.hi > last.hi {
				last.hi = span.hi
			}
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

// columnBoundaries returns the midpoints of horizontal gaps wider than
// GapThreshold times the page width.
func (a *WhitespaceAnalyzer) columnBoundaries(blocks []*model.Block, pageWidth float64) []float64 {
	spans := make([]interval, 0, len(blocks))
	for _, b := range blocks {
		spans = append(spans, interval{lo: b.BBox.X0, hi: b.BBox.X1})
	}
	merged := mergeIntervals(spans)

	minGap := a.config.GapThreshold * pageWidth
	var boundaries []float64
	for i := 1; i < len(merged); i++ {
		gap := merged[i].lo - merged[i-1].hi
		if gap > minGap {
			boundaries = append(boundaries, merged[i-1].hi+gap/2)
		}
	}
	return boundaries
}

// verticalBoundaries classifies vertical whitespace bands into paragraph
// and section boundaries by their height.
func (a *WhitespaceAnalyzer) verticalBoundaries(blocks []*model.Block, avgLineHeight float64) (paragraphs, sections []float64) {
	var spans []interval
	for _, b := range blocks {
		if len(b.Lines) == 0 {
			spans = append(spans, interval{lo: b.BBox.Y0, hi: b.BBox.Y1})
			continue
		}
		for _, line := range b.Lines {
			spans = append(spans, interval{lo: line.BBox.Y0, hi: line.BBox.Y1})
		}
	}
	merged := mergeIntervals(spans)

	paragraphGap := a.config.ParagraphGapFactor * avgLineHeight
	sectionGap := a.config.SectionGapFactor * avgLineHeight
	for i := 1; i < len(merged); i++ {
		gap := merged[i].lo - merged[i-1].hi
		mid := merged[i-1].hi + gap/2
		switch {
		case gap >= sectionGap:
			sections = append(sections, mid)
		case gap >= paragraphGap:
			paragraphs = append(paragraphs, mid)
		}
	}
	return paragraphs, sections
}

// buildNeighbors finds, for every block, the nearest block in each of the
// four directions among those whose perpendicular extent overlaps within
// the configured tolerance.
func (a *WhitespaceAnalyzer) buildNeighbors(blocks []*model.Block) []NeighborSet {
	tol := a.config.OverlapTolerance
	neighbors := make([]NeighborSet, len(blocks))

	for i := range neighbors {
		neighbors[i] = NeighborSet{Left: -1, Right: -1, Up: -1, Down: -1}
	}

	for i, bi := range blocks {
		var leftGap, rightGap, upGap, downGap float64
		expanded := bi.BBox.Expand(tol)

		for j, bj := range blocks {
			if i == j {
				continue
			}

			if expanded.VerticalOverlap(bj.BBox.Expand(tol)) > 0 {
				if bj.BBox.X1 <= bi.BBox.X0+tol {
					gap := bi.BBox.X0 - bj.BBox.X1
					if neighbors[i].Left < 0 || gap < leftGap {
						neighbors[i].Left = j
						leftGap = gap
					}
				}
				if bj.BBox.X0 >= bi.BBox.X1-tol {
					gap := bj.BBox.X0 - bi.BBox.X1
					if neighbors[i].Right < 0 || gap < rightGap {
						neighbors[i].Right = j
						rightGap = gap
					}
				}
			}

			if expanded.HorizontalOverlap(bj.BBox.Expand(tol)) > 0 {
				if bj.BBox.Y1 <= bi.BBox.Y0+tol {
					gap := bi.BBox.Y0 - bj.BBox.Y1
					if neighbors[i].Up < 0 || gap < upGap {
						neighbors[i].Up = j
						upGap = gap
					}
				}
				if bj.BBox.Y0 >= bi.BBox.Y1-tol {
					gap := bj.BBox.Y0 - bi.BBox.Y1
					if neighbors[i].Down < 0 || gap < downGap {
						neighbors[i].Down = j
						downGap = gap
					}
				}
			}
		}
	}
	return neighbors
}

// averageBlockLineHeight returns the mean line height across all blocks,
// falling back to block heights when no block carries lines.
func averageBlockLineHeight(blocks []*model.Block) float64 {
	total, count := 0.0, 0
	for _, b := range blocks {
		for _, line := range b.Lines {
			total += line.Height
			count++
		}
	}
	if count == 0 {
		for _, b := range blocks {
			total += b.BBox.Height()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// WhitespaceLayout methods

// ColumnCount returns the number of detected columns. A page with blocks
// and no qualifying gaps has one column; an empty page has none.
func (l *WhitespaceLayout) ColumnCount() int {
	if l == nil || l.Neighbors == nil {
		return 0
	}
	return len(l.ColumnBoundaries) + 1
}

// ColumnFor returns the column index containing the given X coordinate
func (l *WhitespaceLayout) ColumnFor(x float64) int {
	if l == nil {
		return 0
	}
	col := 0
	for _, boundary := range l.ColumnBoundaries {
		if x > boundary {
			col++
		}
	}
	return col
}

// NeighborsOf returns the neighbor set for a block index
func (l *WhitespaceLayout) NeighborsOf(index int) NeighborSet {
	if l == nil || index < 0 || index >= len(l.Neighbors) {
		return NeighborSet{Left: -1, Right: -1, Up: -1, Down: -1}
	}
	return l.Neighbors[index]
}
