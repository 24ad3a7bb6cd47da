package layout

import (
	"math"

	"github.com/tsawler/strata/model"
)

// XYCutRegion is one leaf of the recursive segmentation: a rectangular
// page region and the indices of the input boxes it contains.
type XYCutRegion struct {
	// BBox is the union of the member boxes
	BBox model.BBox

	// Indices are positions into the input box slice
	Indices []int

	// Depth is the recursion depth at which the region became a leaf
	Depth int
}

// XYCutLayout represents the result of recursive projection-profile
// segmentation. The regions partition the input exactly: every input
// index appears in exactly one region.
type XYCutLayout struct {
	// Regions are the leaf regions, left/top sides first
	Regions []XYCutRegion

	// PageWidth is the width of the page
	PageWidth float64

	// PageHeight is the height of the page
	PageHeight float64

	// Config is the configuration used for segmentation
	Config XYCutConfig
}

// XYCutConfig holds configuration for projection-profile segmentation
type XYCutConfig struct {
	// HorizontalValleyFactor scales the mean character height into the
	// minimum height of a horizontal white band that permits a cut
	// (default: 0.5)
	HorizontalValleyFactor float64

	// VerticalValleyFactor scales the mean character width into the
	// minimum width of a vertical white band that permits a cut
	// (default: 1.5)
	VerticalValleyFactor float64

	// MaxDepth bounds the segmentation recursion (default: 12)
	MaxDepth int

	// CharWidth and CharHeight override the mean character dimensions
	// derived from the input boxes; 0 selects derivation (defaults: 0)
	CharWidth  float64
	CharHeight float64
}

// DefaultXYCutConfig returns sensible default configuration
func DefaultXYCutConfig() XYCutConfig {
	return XYCutConfig{
		HorizontalValleyFactor: 0.5,
		VerticalValleyFactor:   1.5,
		MaxDepth:               12,
	}
}

// XYCutSegmenter partitions a page hierarchically by cutting along white
// bands in the horizontal and vertical projection profiles, recursing on
// both sides until no qualifying valley remains.
type XYCutSegmenter struct {
	config XYCutConfig
}

// NewXYCutSegmenter creates a new segmenter with default configuration
func NewXYCutSegmenter() *XYCutSegmenter {
	return &XYCutSegmenter{
		config: DefaultXYCutConfig(),
	}
}

// NewXYCutSegmenterWithConfig creates a segmenter with custom configuration
func NewXYCutSegmenterWithConfig(config XYCutConfig) *XYCutSegmenter {
	return &XYCutSegmenter{
		config: config,
	}
}

// profileBinWidth is the coordinate extent covered by one profile bin
const profileBinWidth = 1.0

// cutTask is one pending region on the explicit work stack
type cutTask struct {
	indices []int
	depth   int
}

// valley is a candidate cut: a maximal below-threshold run in a profile
type valley struct {
	width    float64
	position float64
	found    bool
}

// Segment recursively partitions the boxes. The union of the returned
// regions' indices is always exactly the input index set.
func (s *XYCutSegmenter) Segment(boxes []model.BBox, pageWidth, pageHeight float64) *XYCutLayout {
	layout := &XYCutLayout{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     s.config,
	}
	if len(boxes) == 0 {
		return layout
	}

	// Step 1: Establish the minimum valley sizes
	charWidth := s.config.CharWidth
	if charWidth <= 0 {
		charWidth = meanBoxWidth(boxes)
	}
	charHeight := s.config.CharHeight
	if charHeight <= 0 {
		charHeight = meanBoxHeight(boxes)
	}
	minVertical := maxFloat(s.config.VerticalValleyFactor*charWidth, profileBinWidth)
	minHorizontal := maxFloat(s.config.HorizontalValleyFactor*charHeight, profileBinWidth)

	maxDepth := s.config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultXYCutConfig().MaxDepth
	}

	// Step 2: Work through regions on an explicit stack
	all := make([]int, len(boxes))
	for i := range boxes {
		all[i] = i
	}
	stack := []cutTask{{indices: all, depth: 0}}

	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(task.indices) <= 1 || task.depth >= maxDepth {
			layout.Regions = append(layout.Regions, s.leaf(boxes, task))
			continue
		}

		// Step 3: Find the widest valley on each axis
		vertical := findValley(boxes, task.indices, minVertical, true)
		horizontal := findValley(boxes, task.indices, minHorizontal, false)

		if !vertical.found && !horizontal.found {
			layout.Regions = append(layout.Regions, s.leaf(boxes, task))
			continue
		}

		// Step 4: Cut along the axis with the widest valley; ties go to
		// the horizontal cut
		var first, second []int
		if vertical.found && (!horizontal.found || vertical.width > horizontal.width) {
			first, second = splitByCenter(boxes, task.indices, vertical.position, true)
		} else {
			first, second = splitByCenter(boxes, task.indices, horizontal.position, false)
		}

		// A valley that fails to separate the boxes cannot make progress
		if len(first) == 0 || len(second) == 0 {
			layout.Regions = append(layout.Regions, s.leaf(boxes, task))
			continue
		}

		// Left/top side is processed first
		stack = append(stack, cutTask{indices: second, depth: task.depth + 1})
		stack = append(stack, cutTask{indices: first, depth: task.depth + 1})
	}

	return layout
}

// leaf builds a leaf region from a task
func (s *XYCutSegmenter) leaf(boxes []model.BBox, task cutTask) XYCutRegion {
	return XYCutRegion{
		BBox:    unionBoxes(boxes, task.indices),
		Indices: task.indices,
		Depth:   task.depth,
	}
}

// findValley computes a 1-D projection profile over the region's extent
// and returns the widest interior run of empty bins at least minWidth
// wide. With alongX true the profile projects onto the X axis, so the
// valley is a vertical white band.
func findValley(boxes []model.BBox, indices []int, minWidth float64, alongX bool) valley {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range indices {
		b0, b1 := boxes[i].Y0, boxes[i].Y1
		if alongX {
			b0, b1 = boxes[i].X0, boxes[i].X1
		}
		lo = minFloat(lo, b0)
		hi = maxFloat(hi, b1)
	}
	if !(hi > lo) {
		return valley{}
	}

	bins := int(math.Ceil((hi-lo)/profileBinWidth)) + 1
	profile := make([]float64, bins)
	for _, i := range indices {
		b0, b1, extent := boxes[i].Y0, boxes[i].Y1, boxes[i].Width()
		if alongX {
			b0, b1, extent = boxes[i].X0, boxes[i].X1, boxes[i].Height()
		}
		first := int((b0 - lo) / profileBinWidth)
		last := int((b1 - lo) / profileBinWidth)
		if last >= bins {
			last = bins - 1
		}
		for bin := first; bin <= last; bin++ {
			profile[bin] += extent
		}
	}

	// Trim border emptiness: only interior runs are valleys
	first, last := 0, bins-1
	for first < bins && profile[first] == 0 {
		first++
	}
	for last >= 0 && profile[last] == 0 {
		last--
	}

	best := valley{}
	runStart := -1
	for bin := first; bin <= last+1; bin++ {
		empty := bin <= last && profile[bin] == 0
		if empty {
			if runStart < 0 {
				runStart = bin
			}
			continue
		}
		if runStart >= 0 {
			width := float64(bin-runStart) * profileBinWidth
			if width >= minWidth && width > best.width {
				center := lo + (float64(runStart)+float64(bin-runStart)/2)*profileBinWidth
				best = valley{width: width, position: center, found: true}
			}
			runStart = -1
		}
	}
	return best
}

// splitByCenter assigns each box to the side of the cut containing its
// center. Boxes straddling the cut line follow their center point.
func splitByCenter(boxes []model.BBox, indices []int, cut float64, alongX bool) (first, second []int) {
	for _, i := range indices {
		center := boxes[i].Center().Y
		if alongX {
			center = boxes[i].Center().X
		}
		if center <= cut {
			first = append(first, i)
		} else {
			second = append(second, i)
		}
	}
	return first, second
}

// unionBoxes returns the union of the indexed boxes
func unionBoxes(boxes []model.BBox, indices []int) model.BBox {
	if len(indices) == 0 {
		return model.BBox{}
	}
	union := boxes[indices[0]]
	for _, i := range indices[1:] {
		union = union.Union(boxes[i])
	}
	return union
}

// meanBoxWidth returns the average box width
func meanBoxWidth(boxes []model.BBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range boxes {
		total += b.Width()
	}
	return total / float64(len(boxes))
}

// meanBoxHeight returns the average box height
func meanBoxHeight(boxes []model.BBox) float64 {
	if len(boxes) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range boxes {
		total += b.Height()
	}
	return total / float64(len(boxes))
}

// XYCutLayout methods

// RegionCount returns the number of leaf regions
func (l *XYCutLayout) RegionCount() int {
	if l == nil {
		return 0
	}
	return len(l.Regions)
}

// GetRegion returns a specific region by index
func (l *XYCutLayout) GetRegion(index int) *XYCutRegion {
	if l == nil || index < 0 || index >= len(l.Regions) {
		return nil
	}
	return &l.Regions[index]
}

// AllIndices returns the concatenation of every region's indices
func (l *XYCutLayout) AllIndices() []int {
	if l == nil {
		return nil
	}
	var all []int
	for _, r := range l.Regions {
		all = append(all, r.Indices...)
	}
	return all
}
