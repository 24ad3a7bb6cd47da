package tables

import (
	"image"
	"math"
	"sort"

	"github.com/tsawler/strata/model"
	"golang.org/x/image/vector"
)

// Lattice tables are backed by explicit ruling lines, so detection
// carries a fixed high confidence.
const latticeConfidence = 0.9

// Coverage at or above this alpha value counts as an inked pixel.
const latticeAlphaThreshold = 0x80

// Strokes thinner than this are widened before rasterization so a
// hairline rule still covers a full pixel row.
const minStrokeWidth = 1.0

// Runs thicker than this are shading, not ruling lines.
const maxLineThickness = 6.0

// Axis-alignment slack when deciding whether a stroke is horizontal or
// vertical. Diagonal strokes cannot form grid lines.
const gridLineSlack = 2.0

// LatticeDetector recovers tables from drawn ruling lines. The page's
// drawing primitives are rasterized into a coverage mask, horizontal
// and vertical line runs are read back out of the mask, and the cell
// grid is rebuilt from their intersections.
type LatticeDetector struct {
	config Config
}

// NewLatticeDetector creates a lattice detector with default configuration.
func NewLatticeDetector() *LatticeDetector {
	return &LatticeDetector{
		config: DefaultConfig(),
	}
}

// Name returns the detector's identifier ("lattice").
func (d *LatticeDetector) Name() string {
	return "lattice"
}

// Configure sets the detector configuration.
func (d *LatticeDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds ruled tables on a page. Pages without drawing primitives
// yield no tables.
func (d *LatticeDetector) Detect(input Input) ([]*model.Table, error) {
	if len(input.Drawings) == 0 || input.Width <= 0 || input.Height <= 0 {
		return nil, nil
	}

	scale := d.config.RasterScale
	if scale <= 0 {
		scale = 1.0
	}

	// Step 1: rasterize the rule-like drawings into a coverage mask
	mask := rasterizeDrawings(input.Drawings, input.Width, input.Height, scale)
	if mask == nil {
		return nil, nil
	}

	// Step 2: read horizontal and vertical line runs back out of the mask
	horizontal := maskRuns(mask, scale, d.config.MinLineLength, false)
	vertical := maskRuns(mask, scale, d.config.MinLineLength, true)
	if len(horizontal) == 0 || len(vertical) == 0 {
		return nil, nil
	}

	// Step 3: group connected runs into candidate regions and rebuild
	// the cell grid of each
	var tables []*model.Table
	for _, region := range groupLineRegions(horizontal, vertical, d.config.LineTolerance) {
		if table := d.tableFromRegion(region, input.Blocks); table != nil {
			tables = append(tables, table)
		}
	}

	sortTables(tables)
	return tables, nil
}

// tableFromRegion rebuilds the cell grid of one connected group of
// ruling lines and fills it from the page's blocks.
func (d *LatticeDetector) tableFromRegion(region *lineRegion, blocks []*model.Block) *model.Table {
	if len(region.horizontal) < 2 || len(region.vertical) < 2 {
		return nil
	}

	xs, ys := lineIntersections(region.horizontal, region.vertical, d.config.LineTolerance)

	rowBounds := enforceMinGap(clusterValues(ys, d.config.LineTolerance), d.config.MinCellSize)
	colBounds := enforceMinGap(clusterValues(xs, d.config.LineTolerance), d.config.MinCellSize)

	grid := model.NewTableGrid()
	grid.Rows = rowBounds
	grid.Cols = colBounds
	if grid.RowCount() < d.config.MinRows || grid.ColCount() < d.config.MinCols {
		return nil
	}
	if latticeConfidence < d.config.MinConfidence {
		return nil
	}

	table := tableFromGrid(grid)
	table.Method = model.MethodLattice
	table.Confidence = latticeConfidence
	populateTable(table, grid, blocks, d.config)
	return table
}

// rasterizeDrawings renders the rule-like drawing primitives into an
// alpha mask at the given resolution. Diagonal strokes and large filled
// areas are skipped; neither can form grid lines.
func rasterizeDrawings(drawings []model.Drawing, width, height, scale float64) *image.Alpha {
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	if w < 1 || h < 1 {
		return nil
	}

	z := vector.NewRasterizer(w, h)
	painted := false

	for _, drawing := range drawings {
		bbox := drawing.BBox()
		stroke := drawing.Width
		if stroke < minStrokeWidth {
			stroke = minStrokeWidth
		}
		half := stroke / 2

		switch {
		case drawing.IsRect && drawing.RectFill:
			// A thin filled rect is a rule drawn as a fill; larger
			// fills are shading and would smear the mask.
			if math.Min(bbox.Width(), bbox.Height()) <= maxLineThickness {
				addRect(z, bbox, scale)
				painted = true
			}
		case drawing.IsRect:
			addRect(z, model.BBox{X0: bbox.X0 - half, Y0: bbox.Y0 - half, X1: bbox.X1 + half, Y1: bbox.Y0 + half}, scale)
			addRect(z, model.BBox{X0: bbox.X0 - half, Y0: bbox.Y1 - half, X1: bbox.X1 + half, Y1: bbox.Y1 + half}, scale)
			addRect(z, model.BBox{X0: bbox.X0 - half, Y0: bbox.Y0 - half, X1: bbox.X0 + half, Y1: bbox.Y1 + half}, scale)
			addRect(z, model.BBox{X0: bbox.X1 - half, Y0: bbox.Y0 - half, X1: bbox.X1 + half, Y1: bbox.Y1 + half}, scale)
			painted = true
		case drawing.IsHorizontal(gridLineSlack):
			y := (drawing.Start.Y + drawing.End.Y) / 2
			addRect(z, model.BBox{X0: bbox.X0, Y0: y - half, X1: bbox.X1, Y1: y + half}, scale)
			painted = true
		case drawing.IsVertical(gridLineSlack):
			x := (drawing.Start.X + drawing.End.X) / 2
			addRect(z, model.BBox{X0: x - half, Y0: bbox.Y0, X1: x + half, Y1: bbox.Y1}, scale)
			painted = true
		}
	}

	if !painted {
		return nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// addRect appends an axis-aligned rectangle to the rasterizer path,
// scaled from page units to raster pixels.
func addRect(z *vector.Rasterizer, box model.BBox, scale float64) {
	x0 := float32(box.X0 * scale)
	y0 := float32(box.Y0 * scale)
	x1 := float32(box.X1 * scale)
	y1 := float32(box.Y1 * scale)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
}

// lineRun is an extracted straight run of inked pixels, in page units.
// For horizontal runs pos is the Y center and lo..hi the X extent; for
// vertical runs pos is the X center and lo..hi the Y extent.
type lineRun struct {
	pos float64
	lo  float64
	hi  float64
}

// maskRuns extracts the line runs of one orientation from the mask.
// Scan lines are pixel rows for horizontal runs and pixel columns for
// vertical ones; runs on adjacent scan lines with overlapping extents
// collapse into a single band, and bands thicker than maxLineThickness
// are discarded as shading.
func maskRuns(mask *image.Alpha, scale, minLen float64, verticalScan bool) []lineRun {
	bounds := mask.Bounds()
	lines, length := bounds.Dy(), bounds.Dx()
	if verticalScan {
		lines, length = bounds.Dx(), bounds.Dy()
	}
	at := func(line, i int) uint8 {
		if verticalScan {
			return mask.Pix[i*mask.Stride+line]
		}
		return mask.Pix[line*mask.Stride+i]
	}

	minPixels := int(minLen * scale)
	if minPixels < 1 {
		minPixels = 1
	}

	type band struct {
		minLine, maxLine int
		lo, hi           int
	}

	var open []*band
	var closed []*band

	for line := 0; line < lines; line++ {
		var next []*band

		start := -1
		for i := 0; i <= length; i++ {
			inked := i < length && at(line, i) >= latticeAlphaThreshold
			if inked && start < 0 {
				start = i
			}
			if !inked && start >= 0 {
				if i-start >= minPixels {
					var target *band
					for _, b := range open {
						if b.maxLine == line-1 && start < b.hi && b.lo < i {
							target = b
							break
						}
					}
					if target != nil {
						target.maxLine = line
						if start < target.lo {
							target.lo = start
						}
						if i > target.hi {
							target.hi = i
						}
						next = append(next, target)
					} else {
						next = append(next, &band{minLine: line, maxLine: line, lo: start, hi: i})
					}
				}
				start = -1
			}
		}

		for _, b := range open {
			if b.maxLine != line {
				closed = append(closed, b)
			}
		}
		open = next
	}
	closed = append(closed, open...)

	var runs []lineRun
	for _, b := range closed {
		if float64(b.maxLine-b.minLine+1)/scale > maxLineThickness {
			continue
		}
		run := lineRun{
			pos: (float64(b.minLine) + float64(b.maxLine) + 1) / 2 / scale,
			lo:  float64(b.lo) / scale,
			hi:  float64(b.hi) / scale,
		}
		if run.hi-run.lo >= minLen {
			runs = append(runs, run)
		}
	}
	return runs
}

// lineRegion is a connected group of horizontal and vertical runs.
type lineRegion struct {
	horizontal []lineRun
	vertical   []lineRun
	bbox       model.BBox
}

func (r *lineRegion) absorb(other *lineRegion) {
	r.horizontal = append(r.horizontal, other.horizontal...)
	r.vertical = append(r.vertical, other.vertical...)
	r.bbox = r.bbox.Union(other.bbox)
}

// groupLineRegions merges runs whose extents touch (within tolerance)
// into connected regions, one candidate table per region.
func groupLineRegions(horizontal, vertical []lineRun, tolerance float64) []*lineRegion {
	var regions []*lineRegion
	for _, run := range horizontal {
		regions = append(regions, &lineRegion{
			horizontal: []lineRun{run},
			bbox:       model.BBox{X0: run.lo, Y0: run.pos, X1: run.hi, Y1: run.pos},
		})
	}
	for _, run := range vertical {
		regions = append(regions, &lineRegion{
			vertical: []lineRun{run},
			bbox:     model.BBox{X0: run.pos, Y0: run.lo, X1: run.pos, Y1: run.hi},
		})
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(regions); i++ {
			for j := i + 1; j < len(regions); j++ {
				if regions[i].bbox.Expand(tolerance).Intersects(regions[j].bbox) {
					regions[i].absorb(regions[j])
					regions = append(regions[:j], regions[j+1:]...)
					merged = true
					j--
				}
			}
		}
	}
	return regions
}

// lineIntersections returns the X and Y coordinates of every crossing
// between a horizontal and a vertical run, each sorted ascending.
func lineIntersections(horizontal, vertical []lineRun, tolerance float64) (xs, ys []float64) {
	for _, h := range horizontal {
		for _, v := range vertical {
			if v.pos >= h.lo-tolerance && v.pos <= h.hi+tolerance &&
				h.pos >= v.lo-tolerance && h.pos <= v.hi+tolerance {
				xs = append(xs, v.pos)
				ys = append(ys, h.pos)
			}
		}
	}
	sort.Float64s(xs)
	sort.Float64s(ys)
	return xs, ys
}

// enforceMinGap drops boundaries closer than the minimum cell size to
// the previous kept boundary.
func enforceMinGap(bounds []float64, minGap float64) []float64 {
	if len(bounds) == 0 || minGap <= 0 {
		return bounds
	}
	kept := make([]float64, 0, len(bounds))
	kept = append(kept, bounds[0])
	for _, b := range bounds[1:] {
		if b-kept[len(kept)-1] >= minGap {
			kept = append(kept, b)
		}
	}
	return kept
}
