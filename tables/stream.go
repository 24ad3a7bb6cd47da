package tables

import (
	"math"
	"sort"

	"github.com/tsawler/strata/model"
)

// Stream tables are recovered from text alignment alone, so detection
// carries a fixed lower confidence than lattice.
const streamConfidence = 0.7

// Blocks separated by more than this vertically start a new candidate
// region.
const streamRegionGap = 50.0

// StreamDetector recovers tables from text alignment. Block edges are
// clustered into row and column positions, and blocks that align with
// no position are dropped. It needs no ruling lines at all.
type StreamDetector struct {
	config Config
}

// NewStreamDetector creates a stream detector with default configuration.
func NewStreamDetector() *StreamDetector {
	return &StreamDetector{
		config: DefaultConfig(),
	}
}

// Name returns the detector's identifier ("stream").
func (d *StreamDetector) Name() string {
	return "stream"
}

// Configure sets the detector configuration.
func (d *StreamDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds aligned tables on a page. Blocks are grouped into
// vertically close regions and each region is tested for a grid of
// aligned edges.
func (d *StreamDetector) Detect(input Input) ([]*model.Table, error) {
	blocks := usableBlocks(input.Blocks)
	if len(blocks) == 0 {
		return nil, nil
	}

	var tables []*model.Table
	for _, region := range splitRegions(blocks) {
		if table := d.tableFromBlocks(region); table != nil {
			tables = append(tables, table)
		}
	}

	sortTables(tables)
	return tables, nil
}

// tableFromBlocks tests one region of blocks for tabular alignment.
func (d *StreamDetector) tableFromBlocks(blocks []*model.Block) *model.Table {
	if len(blocks) < d.config.MinRows*d.config.MinCols {
		return nil
	}

	// Step 1: cluster left and top edges into column and row positions
	xs := make([]float64, 0, len(blocks))
	ys := make([]float64, 0, len(blocks))
	for _, block := range blocks {
		xs = append(xs, block.BBox.X0)
		ys = append(ys, block.BBox.Y0)
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	cols := supportedClusters(clusterEdges(xs, d.config.EdgeTolerance), d.config.EdgeSupport)
	rows := supportedClusters(clusterEdges(ys, d.config.EdgeTolerance), d.config.EdgeSupport)
	if len(rows) < d.config.MinRows || len(cols) < d.config.MinCols {
		return nil
	}

	// Step 2: assign each block to its nearest row and column position;
	// blocks that align with neither are dropped
	var assigned []*model.Block
	rowUsed := make(map[int]bool)
	colUsed := make(map[int]bool)
	right, bottom := cols[len(cols)-1], rows[len(rows)-1]
	for _, block := range blocks {
		ci := nearestPosition(cols, block.BBox.X0, d.config.EdgeTolerance)
		ri := nearestPosition(rows, block.BBox.Y0, d.config.EdgeTolerance)
		if ci < 0 || ri < 0 {
			continue
		}
		assigned = append(assigned, block)
		rowUsed[ri] = true
		colUsed[ci] = true
		if block.BBox.X1 > right {
			right = block.BBox.X1
		}
		if block.BBox.Y1 > bottom {
			bottom = block.BBox.Y1
		}
	}
	if len(rowUsed) < d.config.MinRows || len(colUsed) < d.config.MinCols {
		return nil
	}
	if right <= cols[len(cols)-1] || bottom <= rows[len(rows)-1] {
		return nil
	}
	if streamConfidence < d.config.MinConfidence {
		return nil
	}

	// Step 3: grid boundaries are the positions plus the region extent
	grid := model.NewTableGrid()
	grid.Cols = append(append(grid.Cols, cols...), right)
	grid.Rows = append(append(grid.Rows, rows...), bottom)

	table := tableFromGrid(grid)
	table.Method = model.MethodStream
	table.Confidence = streamConfidence
	populateTable(table, grid, assigned, d.config)
	return table
}

// usableBlocks filters out nil, lineless, and degenerate blocks.
func usableBlocks(blocks []*model.Block) []*model.Block {
	usable := make([]*model.Block, 0, len(blocks))
	for _, block := range blocks {
		if block == nil || len(block.Lines) == 0 || block.BBox.IsEmpty() {
			continue
		}
		usable = append(usable, block)
	}
	return usable
}

// splitRegions groups blocks that are vertically close. A block more
// than streamRegionGap below everything above it starts a new region.
func splitRegions(blocks []*model.Block) [][]*model.Block {
	sorted := make([]*model.Block, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
	})

	var regions [][]*model.Block
	current := []*model.Block{sorted[0]}
	bottom := sorted[0].BBox.Y1

	for _, block := range sorted[1:] {
		if block.BBox.Y0-bottom > streamRegionGap {
			regions = append(regions, current)
			current = []*model.Block{block}
			bottom = block.BBox.Y1
			continue
		}
		current = append(current, block)
		if block.BBox.Y1 > bottom {
			bottom = block.BBox.Y1
		}
	}
	return append(regions, current)
}

// clusterValues clusters nearby sorted values within the given
// tolerance, averaging values that fall within the tolerance of the
// cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}

	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			// Update cluster center with average
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}

// edgeCluster is a clustered edge position and the number of edges
// backing it.
type edgeCluster struct {
	center float64
	count  int
}

// clusterEdges is clusterValues keeping member counts, so positions
// backed by a single stray edge can be discarded.
func clusterEdges(values []float64, tolerance float64) []edgeCluster {
	if len(values) == 0 {
		return nil
	}

	clusters := []edgeCluster{{center: values[0], count: 1}}

	for i := 1; i < len(values); i++ {
		last := &clusters[len(clusters)-1]
		if values[i]-last.center > tolerance {
			clusters = append(clusters, edgeCluster{center: values[i], count: 1})
		} else {
			last.center = (last.center + values[i]) / 2
			last.count++
		}
	}

	return clusters
}

// supportedClusters keeps cluster centers backed by at least minCount
// edges.
func supportedClusters(clusters []edgeCluster, minCount int) []float64 {
	positions := make([]float64, 0, len(clusters))
	for _, cluster := range clusters {
		if cluster.count >= minCount {
			positions = append(positions, cluster.center)
		}
	}
	return positions
}

// nearestPosition returns the index of the closest position within
// tolerance, or -1 when none qualifies.
func nearestPosition(positions []float64, value, tolerance float64) int {
	best := -1
	bestDist := tolerance
	for i, pos := range positions {
		if dist := math.Abs(value - pos); dist <= bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}
