package layout

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/vector"

	"github.com/tsawler/strata/model"
)

// RLSALayout represents the regions recovered by run-length smoothing
type RLSALayout struct {
	// Regions are the detected region boxes in top-to-bottom page order
	Regions []model.BBox

	// HorizontalThreshold is the horizontal smoothing run length, in
	// grid cells, derived from the mean glyph width
	HorizontalThreshold int

	// VerticalThreshold is the vertical smoothing run length, in grid
	// cells, derived from the mean line height
	VerticalThreshold int

	// GridWidth and GridHeight are the occupancy grid dimensions
	GridWidth  int
	GridHeight int

	// PageWidth is the width of the page
	PageWidth float64

	// PageHeight is the height of the page
	PageHeight float64

	// Config is the configuration used for detection
	Config RLSAConfig
}

// RLSAConfig holds configuration for run-length smoothing detection
type RLSAConfig struct {
	// HorizontalFactor scales the mean glyph width into the horizontal
	// smoothing threshold (default: 8.0)
	HorizontalFactor float64

	// MinHorizontalThreshold and MaxHorizontalThreshold clamp the
	// horizontal smoothing threshold, in grid cells (defaults: 10, 50)
	MinHorizontalThreshold int
	MaxHorizontalThreshold int

	// VerticalFactor scales the mean line height into the vertical
	// smoothing threshold (default: 1.5)
	VerticalFactor float64

	// MinVerticalThreshold and MaxVerticalThreshold clamp the vertical
	// smoothing threshold, in grid cells (defaults: 3, 10)
	MinVerticalThreshold int
	MaxVerticalThreshold int

	// MinRegionWidth is the minimum width for a valid region in page
	// units (default: 10)
	MinRegionWidth float64

	// MinRegionHeight is the minimum height for a valid region in page
	// units (default: 5)
	MinRegionHeight float64

	// MaxGridDimension caps the occupancy grid edge length; larger pages
	// are rasterized at reduced resolution (default: 2048)
	MaxGridDimension int
}

// DefaultRLSAConfig returns sensible default configuration
func DefaultRLSAConfig() RLSAConfig {
	return RLSAConfig{
		HorizontalFactor:       8.0,
		MinHorizontalThreshold: 10,
		MaxHorizontalThreshold: 50,
		VerticalFactor:         1.5,
		MinVerticalThreshold:   3,
		MaxVerticalThreshold:   10,
		MinRegionWidth:         10.0,
		MinRegionHeight:        5.0,
		MaxGridDimension:       2048,
	}
}

// RLSADetector recovers content regions by run-length smoothing: component
// boxes are rasterized onto a binary occupancy grid, white runs shorter
// than an adaptive threshold are filled horizontally and vertically, the
// results are combined, and connected regions are extracted. It serves as
// a cross-check when glyph geometry is too sparse for clustering.
type RLSADetector struct {
	config RLSAConfig
}

// NewRLSADetector creates a new RLSA detector with default configuration
func NewRLSADetector() *RLSADetector {
	return &RLSADetector{
		config: DefaultRLSAConfig(),
	}
}

// NewRLSADetectorWithConfig creates an RLSA detector with custom configuration
func NewRLSADetectorWithConfig(config RLSAConfig) *RLSADetector {
	return &RLSADetector{
		config: config,
	}
}

// Detect rasterizes the components and extracts smoothed content regions
func (d *RLSADetector) Detect(components []model.TextComponent, pageWidth, pageHeight float64) *RLSALayout {
	layout := &RLSALayout{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     d.config,
	}

	if len(components) == 0 || pageWidth <= 0 || pageHeight <= 0 {
		return layout
	}

	// Step 1: Derive adaptive thresholds from glyph geometry
	scale := d.gridScale(pageWidth, pageHeight)
	gridW := int(math.Ceil(pageWidth * scale))
	gridH := int(math.Ceil(pageHeight * scale))
	if gridW < 1 {
		gridW = 1
	}
	if gridH < 1 {
		gridH = 1
	}
	layout.GridWidth = gridW
	layout.GridHeight = gridH

	hThresh := clampInt(int(math.Round(d.config.HorizontalFactor*meanGlyphWidth(components)*scale)),
		d.config.MinHorizontalThreshold, d.config.MaxHorizontalThreshold)
	vThresh := clampInt(int(math.Round(d.config.VerticalFactor*meanComponentHeight(components)*scale)),
		d.config.MinVerticalThreshold, d.config.MaxVerticalThreshold)
	layout.HorizontalThreshold = hThresh
	layout.VerticalThreshold = vThresh

	// Step 2: Rasterize component boxes onto the occupancy grid
	grid := d.rasterize(components, gridW, gridH, scale)

	// Step 3: Smooth horizontally and vertically, AND the results, then
	// run a final horizontal pass
	horizontal := smearRows(cloneGrid(grid), gridW, gridH, hThresh)
	vertical := smearColumns(cloneGrid(grid), gridW, gridH, vThresh)
	combined := andGrids(horizontal, vertical)
	final := smearRows(combined, gridW, gridH, hThresh)

	// Step 4: Extract connected regions and filter small ones
	regions := extractRegions(final, gridW, gridH, scale)
	var kept []model.BBox
	for _, r := range regions {
		if r.Width() < d.config.MinRegionWidth || r.Height() < d.config.MinRegionHeight {
			continue
		}
		kept = append(kept, r)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Y0 != kept[j].Y0 {
			return kept[i].Y0 < kept[j].Y0
		}
		return kept[i].X0 < kept[j].X0
	})

	layout.Regions = kept
	return layout
}

// gridScale returns the cells-per-page-unit factor, reducing resolution
// for pages larger than the grid cap.
func (d *RLSADetector) gridScale(pageWidth, pageHeight float64) float64 {
	maxDim := d.config.MaxGridDimension
	if maxDim <= 0 {
		maxDim = DefaultRLSAConfig().MaxGridDimension
	}
	largest := maxFloat(pageWidth, pageHeight)
	if largest <= float64(maxDim) {
		return 1.0
	}
	return float64(maxDim) / largest
}

// rasterize draws every valid component box onto a binary grid
func (d *RLSADetector) rasterize(components []model.TextComponent, gridW, gridH int, scale float64) []bool {
	z := vector.NewRasterizer(gridW, gridH)
	for _, comp := range components {
		box, ok := comp.BBox.Sanitize()
		if !ok || box.IsEmpty() {
			continue
		}
		x0 := float32(box.X0 * scale)
		y0 := float32(box.Y0 * scale)
		x1 := float32(box.X1 * scale)
		y1 := float32(box.Y1 * scale)
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, gridW, gridH))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	grid := make([]bool, gridW*gridH)
	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			grid[y*gridW+x] = dst.AlphaAt(x, y).A >= 128
		}
	}
	return grid
}

// smearRows fills white runs shorter than threshold between black cells
// along each row, in place.
func smearRows(grid []bool, gridW, gridH, threshold int) []bool {
	for y := 0; y < gridH; y++ {
		row := grid[y*gridW : (y+1)*gridW]
		lastBlack := -1
		for x := 0; x < gridW; x++ {
			if !row[x] {
				continue
			}
			if lastBlack >= 0 && x-lastBlack-1 > 0 && x-lastBlack-1 < threshold {
				for f := lastBlack + 1; f < x; f++ {
					row[f] = true
				}
			}
			lastBlack = x
		}
	}
	return grid
}

// smearColumns fills white runs shorter than threshold between black
// cells along each column, in place.
func smearColumns(grid []bool, gridW, gridH, threshold int) []bool {
	for x := 0; x < gridW; x++ {
		lastBlack := -1
		for y := 0; y < gridH; y++ {
			if !grid[y*gridW+x] {
				continue
			}
			if lastBlack >= 0 && y-lastBlack-1 > 0 && y-lastBlack-1 < threshold {
				for f := lastBlack + 1; f < y; f++ {
					grid[f*gridW+x] = true
				}
			}
			lastBlack = y
		}
	}
	return grid
}

// andGrids combines two grids cell-wise, reusing the first
func andGrids(a, b []bool) []bool {
	for i := range a {
		a[i] = a[i] && b[i]
	}
	return a
}

// cloneGrid copies a grid
func cloneGrid(grid []bool) []bool {
	clone := make([]bool, len(grid))
	copy(clone, grid)
	return clone
}

// extractRegions labels 4-connected black regions and returns their
// bounding boxes in page units.
func extractRegions(grid []bool, gridW, gridH int, scale float64) []model.BBox {
	visited := make([]bool, len(grid))
	var regions []model.BBox

	for start := range grid {
		if !grid[start] || visited[start] {
			continue
		}

		minX, minY := start%gridW, start/gridW
		maxX, maxY := minX, minY
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			x, y := cell%gridW, cell/gridW
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			neighbors := [4]int{cell - 1, cell + 1, cell - gridW, cell + gridW}
			valid := [4]bool{x > 0, x < gridW-1, y > 0, y < gridH-1}
			for i, n := range neighbors {
				if !valid[i] || visited[n] || !grid[n] {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}

		regions = append(regions, model.NewBBox(
			float64(minX)/scale,
			float64(minY)/scale,
			float64(maxX+1)/scale,
			float64(maxY+1)/scale,
		))
	}
	return regions
}

// clampInt restricts a value to the inclusive range [lo, hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// meanGlyphWidth returns the total component width divided by the total
// character count, approximating the average single-glyph width.
func meanGlyphWidth(components []model.TextComponent) float64 {
	totalWidth, totalChars := 0.0, 0
	for _, c := range components {
		totalWidth += c.BBox.Width()
		totalChars += c.CharCount()
	}
	if totalChars == 0 {
		return 0
	}
	return totalWidth / float64(totalChars)
}

// meanComponentHeight returns the average component height
func meanComponentHeight(components []model.TextComponent) float64 {
	if len(components) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range components {
		total += c.BBox.Height()
	}
	return total / float64(len(components))
}

// RLSALayout methods

// RegionCount returns the number of detected regions
func (l *RLSALayout) RegionCount() int {
	if l == nil {
		return 0
	}
	return len(l.Regions)
}

// GetRegion returns a specific region by index
func (l *RLSALayout) GetRegion(index int) *model.BBox {
	if l == nil || index < 0 || index >= len(l.Regions) {
		return nil
	}
	return &l.Regions[index]
}
