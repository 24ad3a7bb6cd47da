package layout

import (
	"math"
	"sort"

	"github.com/tsawler/strata/model"
)

// SpatialIndex is a uniform grid-bucket index over a page area. Items are
// inserted once with an integer id and a bounding box; lookups answer
// rectangle intersection and nearest-neighbor queries without scanning
// every item. The index is built once per page and is read-only afterward.
type SpatialIndex struct {
	cellSize float64
	cols     int
	rows     int
	buckets  map[int][]int
	boxes    []model.BBox
	ids      []int
}

// DefaultCellSize is the grid cell edge length used when no explicit cell
// size is supplied.
const DefaultCellSize = 32.0

// NewSpatialIndex creates an index covering a page of the given dimensions.
// A cellSize of 0 or less selects [DefaultCellSize].
func NewSpatialIndex(pageWidth, pageHeight, cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	cols := int(math.Ceil(pageWidth / cellSize))
	rows := int(math.Ceil(pageHeight / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialIndex{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		buckets:  make(map[int][]int),
	}
}

// Insert adds an item to the index. Boxes extending beyond the page area
// are clamped to the border cells rather than dropped.
func (idx *SpatialIndex) Insert(id int, box model.BBox) {
	if idx == nil {
		return
	}

	slot := len(idx.boxes)
	idx.boxes = append(idx.boxes, box)
	idx.ids = append(idx.ids, id)

	c0, r0 := idx.cellAt(box.X0, box.Y0)
	c1, r1 := idx.cellAt(box.X1, box.Y1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			key := r*idx.cols + c
			idx.buckets[key] = append(idx.buckets[key], slot)
		}
	}
}

// Len returns the number of inserted items.
func (idx *SpatialIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.boxes)
}

// QueryRect returns the ids of all items whose boxes intersect the query
// rectangle. Ids appear at most once, in insertion order.
func (idx *SpatialIndex) QueryRect(query model.BBox) []int {
	if idx == nil || len(idx.boxes) == 0 {
		return nil
	}

	c0, r0 := idx.cellAt(query.X0, query.Y0)
	c1, r1 := idx.cellAt(query.X1, query.Y1)

	seen := make(map[int]bool)
	var slots []int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, slot := range idx.buckets[r*idx.cols+c] {
				if seen[slot] {
					continue
				}
				seen[slot] = true
				if idx.boxes[slot].Intersects(query) || idx.boxes[slot].ContainsBox(query) {
					slots = append(slots, slot)
				}
			}
		}
	}

	sort.Ints(slots)
	result := make([]int, len(slots))
	for i, slot := range slots {
		result[i] = idx.ids[slot]
	}
	return result
}

// Nearest returns the ids of up to k items nearest to the given point,
// ordered by center distance. The search expands outward ring by ring so
// dense pages never require a full scan.
func (idx *SpatialIndex) Nearest(p model.Point, k int) []int {
	if idx == nil || k <= 0 || len(idx.boxes) == 0 {
		return nil
	}
	if k > len(idx.boxes) {
		k = len(idx.boxes)
	}

	pc, pr := idx.cellAt(p.X, p.Y)
	maxRing := idx.cols
	if idx.rows > maxRing {
		maxRing = idx.rows
	}

	type candidate struct {
		slot int
		dist float64
	}
	var candidates []candidate
	seen := make(map[int]bool)

	collectRing := func(ring int) {
		for r := pr - ring; r <= pr+ring; r++ {
			for c := pc - ring; c <= pc+ring; c++ {
				if r < 0 || r >= idx.rows || c < 0 || c >= idx.cols {
					continue
				}
				// Only the ring boundary is new
				if ring > 0 && r > pr-ring && r < pr+ring && c > pc-ring && c < pc+ring {
					continue
				}
				for _, slot := range idx.buckets[r*idx.cols+c] {
					if seen[slot] {
						continue
					}
					seen[slot] = true
					candidates = append(candidates, candidate{
						slot: slot,
						dist: p.Distance(idx.boxes[slot].Center()),
					})
				}
			}
		}
	}

	// Expand until k candidates are in hand, then one extra ring: an item
	// in the next ring can still be closer than one found in this ring.
	found := -1
	for ring := 0; ring <= maxRing; ring++ {
		collectRing(ring)
		if found >= 0 && ring > found {
			break
		}
		if found < 0 && len(candidates) >= k {
			found = ring
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].slot < candidates[j].slot
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	result := make([]int, len(candidates))
	for i, c := range candidates {
		result[i] = idx.ids[c.slot]
	}
	return result
}

// cellAt maps a page coordinate to grid cell indices, clamped to the grid.
func (idx *SpatialIndex) cellAt(x, y float64) (col, row int) {
	col = int(math.Floor(x / idx.cellSize))
	row = int(math.Floor(y / idx.cellSize))
	if col < 0 {
		col = 0
	}
	if col >= idx.cols {
		col = idx.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= idx.rows {
		row = idx.rows - 1
	}
	return col, row
}
