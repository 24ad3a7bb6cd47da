package layout

import (
	"sort"

	"github.com/tsawler/strata/model"
)

// ReadingOrderConfig holds configuration for reading order resolution
type ReadingOrderConfig struct {
	// ColumnGapThreshold is the minimum gap in the page's X coverage, in
	// page units, that separates two columns (default: 50)
	ColumnGapThreshold float64

	// RowTolerance is the maximum Y0 difference, in page units, for two
	// blocks to count as the same row and order left to right
	// (default: 10)
	RowTolerance float64
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		ColumnGapThreshold: 50.0,
		RowTolerance:       10.0,
	}
}

// ReadingOrderResolver linearizes a page's blocks into reading order.
// Columns are detected from gaps in the global X coverage; with more than
// one column each is read top to bottom and the columns concatenate left
// to right. The result is always a permutation of the input indices.
type ReadingOrderResolver struct {
	config ReadingOrderConfig
}

// NewReadingOrderResolver creates a new resolver with default configuration
func NewReadingOrderResolver() *ReadingOrderResolver {
	return &ReadingOrderResolver{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderResolverWithConfig creates a resolver with custom configuration
func NewReadingOrderResolverWithConfig(config ReadingOrderConfig) *ReadingOrderResolver {
	return &ReadingOrderResolver{
		config: config,
	}
}

// Resolve returns the block indices in reading order
func (r *ReadingOrderResolver) Resolve(boxes []model.BBox) []int {
	if len(boxes) == 0 {
		return nil
	}

	// Step 1: Detect columns from gaps in the X coverage
	boundaries := r.columnBoundaries(boxes)

	// Step 2: Single column reads top to bottom, left to right
	if len(boundaries) == 0 {
		order := make([]int, len(boxes))
		for i := range order {
			order[i] = i
		}
		r.sortByRow(order, boxes)
		return order
	}

	// Step 3: Assign blocks to columns by center, read each column top
	// to bottom, and concatenate the columns left to right
	columns := make([][]int, len(boundaries)+1)
	for i, box := range boxes {
		col := 0
		for _, boundary := range boundaries {
			if box.Center().X > boundary {
				col++
			}
		}
		columns[col] = append(columns[col], i)
	}

	order := make([]int, 0, len(boxes))
	for _, column := range columns {
		r.sortByRow(column, boxes)
		order = append(order, column...)
	}
	return order
}

// columnBoundaries merges the blocks' X extents and returns the midpoints
// of gaps wider than the column gap threshold.
func (r *ReadingOrderResolver) columnBoundaries(boxes []model.BBox) []float64 {
	spans := make([]interval, 0, len(boxes))
	for _, box := range boxes {
		spans = append(spans, interval{lo: box.X0, hi: box.X1})
	}
	merged := mergeIntervals(spans)

	var boundaries []float64
	for i := 1; i < len(merged); i++ {
		gap := merged[i].lo - merged[i-1].hi
		if gap > r.config.ColumnGapThreshold {
			boundaries = append(boundaries, merged[i-1].hi+gap/2)
		}
	}
	return boundaries
}

// sortByRow orders indices top to bottom, breaking near-equal Y0 ties
// left to right.
func (r *ReadingOrderResolver) sortByRow(indices []int, boxes []model.BBox) {
	sort.SliceStable(indices, func(a, b int) bool {
		bi, bj := boxes[indices[a]], boxes[indices[b]]
		if absFloat(bi.Y0-bj.Y0) > r.config.RowTolerance {
			return bi.Y0 < bj.Y0
		}
		return bi.X0 < bj.X0
	})
}
