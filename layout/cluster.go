package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/strata/model"
)

// NeighborSpectrum holds the document-level statistics aggregated from the
// nearest-neighbor search: the dominant text angle and the estimated
// character spacing. Both drive line formation.
type NeighborSpectrum struct {
	// Skew is the dominant text angle in degrees, normalized to [-90, 90)
	Skew float64

	// Spacing is the estimated inter-component spacing in page units
	Spacing float64

	// Pairs is the number of neighbor pairs sampled
	Pairs int
}

// ClusterLayout represents the line and block structure recovered from a
// page's positioned components.
type ClusterLayout struct {
	// Blocks are the detected blocks in top-to-bottom page order
	Blocks []*model.Block

	// Spectrum is the neighbor spectrum the clustering derived
	Spectrum NeighborSpectrum

	// PageWidth is the width of the page
	PageWidth float64

	// PageHeight is the height of the page
	PageHeight float64

	// Config is the configuration used for detection
	Config ClusterConfig
}

// ClusterConfig holds configuration for nearest-neighbor clustering
type ClusterConfig struct {
	// K is the number of nearest neighbors sampled per component
	// (default: 5)
	K int

	// LineMergeFactor scales the estimated spacing into the maximum
	// distance at which two components still belong to the same line
	// (default: 2.5)
	LineMergeFactor float64

	// AngleTolerance is the maximum deviation from the document skew, in
	// degrees, for two components to be line-adjacent (default: 15)
	AngleTolerance float64

	// MergeParallel scales the average line height into the maximum
	// vertical gap at which two lines merge into one block (default: 1.5)
	MergeParallel float64

	// MergePerpendicular scales the estimated spacing into the horizontal
	// slack allowed when merging lines into blocks: lines may be apart by
	// up to this many spacings and still merge (default: 0.5)
	MergePerpendicular float64

	// AlignmentTolerance is the maximum standard deviation, in page
	// units, for line edges to count as aligned (default: 5.0)
	AlignmentTolerance float64

	// CellSize is the spatial index grid cell size, 0 for the default
	CellSize float64
}

// DefaultClusterConfig returns sensible default configuration
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		K:                  5,
		LineMergeFactor:    2.5,
		AngleTolerance:     15.0,
		MergeParallel:      1.5,
		MergePerpendicular: 0.5,
		AlignmentTolerance: 5.0,
	}
}

// ClusterDetector groups positioned components into lines and blocks using
// nearest-neighbor statistics: the angle histogram peak gives the document
// skew, the distance histogram gives the character spacing, and transitive
// closure over qualifying neighbor pairs gives the lines.
type ClusterDetector struct {
	config ClusterConfig
}

// NewClusterDetector creates a new cluster detector with default configuration
func NewClusterDetector() *ClusterDetector {
	return &ClusterDetector{
		config: DefaultClusterConfig(),
	}
}

// NewClusterDetectorWithConfig creates a cluster detector with custom configuration
func NewClusterDetectorWithConfig(config ClusterConfig) *ClusterDetector {
	return &ClusterDetector{
		config: config,
	}
}

// Histogram bin sizes for the neighbor spectrum. Distances below
// nearZeroDistance come from overlapping glyphs and are skipped when
// estimating spacing.
const (
	angleBinWidth    = 1.0
	distanceBinWidth = 2.0
	nearZeroDistance = 1.0
)

// neighborPair records one directed nearest-neighbor observation
type neighborPair struct {
	from     int
	to       int
	distance float64
	angle    float64
}

// Detect analyzes positioned components and recovers line and block structure
func (d *ClusterDetector) Detect(components []model.TextComponent, pageWidth, pageHeight float64) *ClusterLayout {
	layout := &ClusterLayout{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     d.config,
	}

	if len(components) == 0 {
		return layout
	}
	if len(components) == 1 {
		layout.Blocks = []*model.Block{d.singleComponentBlock(components[0])}
		return layout
	}

	// Step 1: Find k nearest neighbors for every component
	pairs := d.findNeighbors(components, pageWidth, pageHeight)

	// Step 2: Aggregate the pairs into the document spectrum
	spectrum := d.computeSpectrum(pairs)
	layout.Spectrum = spectrum

	// Step 3: Form lines by transitive closure over qualifying pairs
	lineGroups := d.formLines(components, pairs, spectrum)

	// Step 4: Build line values ordered along the skew direction
	lines := make([]model.Line, 0, len(lineGroups))
	for _, group := range lineGroups {
		lines = append(lines, d.buildLine(components, group, spectrum))
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].BBox.Y0 != lines[j].BBox.Y0 {
			return lines[i].BBox.Y0 < lines[j].BBox.Y0
		}
		return lines[i].BBox.X0 < lines[j].BBox.X0
	})

	// Step 5: Merge lines into blocks
	blockGroups := d.mergeLinesIntoBlocks(lines, spectrum)

	// Step 6: Finalize blocks with alignment, spacing, and indentation
	blocks := make([]*model.Block, 0, len(blockGroups))
	for _, group := range blockGroups {
		blocks = append(blocks, d.finalizeBlock(group))
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].BBox.Y0 != blocks[j].BBox.Y0 {
			return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})

	layout.Blocks = blocks
	return layout
}

// singleComponentBlock wraps a lone component into one left-aligned line
// and block.
func (d *ClusterDetector) singleComponentBlock(comp model.TextComponent) *model.Block {
	line := model.Line{
		BBox:            comp.BBox,
		Components:      []model.TextComponent{comp},
		Text:            comp.Text,
		Baseline:        comp.BBox.Y1,
		Height:          comp.BBox.Height(),
		AverageFontSize: comp.FontSize,
		Alignment:       model.AlignLeft,
	}
	block := model.NewBlock([]model.Line{line})
	block.Alignment = model.AlignLeft
	return block
}

// findNeighbors builds the spatial index and samples each component's k
// nearest neighbors, recording distance and angle per pair.
func (d *ClusterDetector) findNeighbors(components []model.TextComponent, pageWidth, pageHeight float64) []neighborPair {
	k := d.config.K
	if k <= 0 {
		k = DefaultClusterConfig().K
	}

	index := NewSpatialIndex(pageWidth, pageHeight, d.config.CellSize)
	for i, comp := range components {
		index.Insert(i, comp.BBox)
	}

	var pairs []neighborPair
	for i, comp := range components {
		center := comp.Center()

		// Request one extra: the component is its own nearest neighbor
		nearest := index.Nearest(center, k+1)
		for _, j := range nearest {
			if j == i {
				continue
			}
			other := components[j].Center()
			pairs = append(pairs, neighborPair{
				from:     i,
				to:       j,
				distance: center.Distance(other),
				angle:    center.AngleTo(other),
			})
		}
	}
	return pairs
}

// computeSpectrum derives the document skew and spacing from the sampled
// neighbor pairs. The skew is the mean angle within the angle histogram's
// peak bin. The spacing is the center of the first distance bin whose
// count exceeds 1.5x the mean bin count, skipping near-zero bins; when no
// bin qualifies the median distance is used instead.
func (d *ClusterDetector) computeSpectrum(pairs []neighborPair) NeighborSpectrum {
	spectrum := NeighborSpectrum{Pairs: len(pairs)}
	if len(pairs) == 0 {
		return spectrum
	}

	// Angle histogram over [-90, 90) in one-degree bins
	angleBins := int(180.0 / angleBinWidth)
	angleCounts := make([]int, angleBins)
	angleSums := make([]float64, angleBins)
	for _, p := range pairs {
		bin := int(math.Floor((p.angle + 90.0) / angleBinWidth))
		if bin < 0 {
			bin = 0
		}
		if bin >= angleBins {
			bin = angleBins - 1
		}
		angleCounts[bin]++
		angleSums[bin] += p.angle
	}
	// Ties between bins go to the one closest to horizontal
	peak := 0
	for bin := 1; bin < angleBins; bin++ {
		if angleCounts[bin] > angleCounts[peak] {
			peak = bin
			continue
		}
		if angleCounts[bin] == angleCounts[peak] &&
			absFloat(binAngle(bin)) < absFloat(binAngle(peak)) {
			peak = bin
		}
	}
	if angleCounts[peak] > 0 {
		spectrum.Skew = angleSums[peak] / float64(angleCounts[peak])
	}

	// Distance histogram
	maxDist := 0.0
	for _, p := range pairs {
		if p.distance > maxDist {
			maxDist = p.distance
		}
	}
	distBins := int(math.Ceil(maxDist/distanceBinWidth)) + 1
	distCounts := make([]int, distBins)
	for _, p := range pairs {
		bin := int(p.distance / distanceBinWidth)
		if bin >= distBins {
			bin = distBins - 1
		}
		distCounts[bin]++
	}
	mean := float64(len(pairs)) / float64(distBins)

	spacing := 0.0
	for bin := 0; bin < distBins; bin++ {
		binCenter := (float64(bin) + 0.5) * distanceBinWidth
		if binCenter < nearZeroDistance {
			continue
		}
		if float64(distCounts[bin]) > 1.5*mean {
			spacing = binCenter
			break
		}
	}
	if spacing == 0 {
		spacing = medianDistance(pairs)
	}
	spectrum.Spacing = spacing
	return spectrum
}

// binAngle returns the center angle of an angle histogram bin
func binAngle(bin int) float64 {
	return (float64(bin)+0.5)*angleBinWidth - 90.0
}

// medianDistance returns the median pair distance
func medianDistance(pairs []neighborPair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	distances := make([]float64, len(pairs))
	for i, p := range pairs {
		distances[i] = p.distance
	}
	sort.Float64s(distances)
	mid := len(distances) / 2
	if len(distances)%2 == 0 {
		return (distances[mid-1] + distances[mid]) / 2
	}
	return distances[mid]
}

// formLines performs BFS over qualifying neighbor pairs. Two components
// are line-adjacent iff their distance is below spacing*LineMergeFactor
// and their angle is within AngleTolerance of the document skew.
func (d *ClusterDetector) formLines(components []model.TextComponent, pairs []neighborPair, spectrum NeighborSpectrum) [][]int {
	maxDist := spectrum.Spacing * d.config.LineMergeFactor

	adjacency := make([][]int, len(components))
	for _, p := range pairs {
		if p.distance >= maxDist {
			continue
		}
		if angleDelta(p.angle, spectrum.Skew) > d.config.AngleTolerance {
			continue
		}
		adjacency[p.from] = append(adjacency[p.from], p.to)
		adjacency[p.to] = append(adjacency[p.to], p.from)
	}

	visited := make([]bool, len(components))
	var groups [][]int
	for start := range components {
		if visited[start] {
			continue
		}
		visited[start] = true
		group := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range adjacency[current] {
				if visited[next] {
					continue
				}
				visited[next] = true
				group = append(group, next)
				queue = append(queue, next)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// buildLine assembles a line value from a component group, ordering the
// components along the skew direction.
func (d *ClusterDetector) buildLine(components []model.TextComponent, group []int, spectrum NeighborSpectrum) model.Line {
	rad := spectrum.Skew * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	sorted := make([]int, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		a := components[sorted[i]].Center()
		b := components[sorted[j]].Center()
		return a.X*cos+a.Y*sin < b.X*cos+b.Y*sin
	})

	comps := make([]model.TextComponent, len(sorted))
	bbox := components[sorted[0]].BBox
	for i, idx := range sorted {
		comps[i] = components[idx]
		bbox = bbox.Union(components[idx].BBox)
	}

	return model.Line{
		BBox:            bbox,
		Components:      comps,
		Text:            composeLineText(comps),
		Baseline:        bbox.Y1,
		Height:          bbox.Height(),
		AverageFontSize: averageFontSize(comps),
	}
}

// spaceGapFactor scales a line's average font size into the minimum
// horizontal gap that separates two words.
const spaceGapFactor = 0.2

// composeLineText joins component text left to right, inserting a space
// wherever the horizontal gap is wide enough to separate words.
func composeLineText(comps []model.TextComponent) string {
	if len(comps) == 0 {
		return ""
	}
	avgSize := averageFontSize(comps)
	if avgSize <= 0 {
		avgSize = 12.0
	}

	var sb strings.Builder
	for i, comp := range comps {
		if i > 0 {
			gap := comp.BBox.X0 - comps[i-1].BBox.X1
			if gap > avgSize*spaceGapFactor {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(comp.Text)
	}
	return sb.String()
}

// averageFontSize returns the character-count-weighted average font size
func averageFontSize(comps []model.TextComponent) float64 {
	weighted, chars := 0.0, 0
	for _, c := range comps {
		n := c.CharCount()
		weighted += c.FontSize * float64(n)
		chars += n
	}
	if chars == 0 {
		return 0
	}
	return weighted / float64(chars)
}

// mergeLinesIntoBlocks performs BFS over line pairs. Two lines merge into
// the same block iff their vertical gap is below MergeParallel times the
// average line height and their horizontal extents overlap, allowing a
// slack of MergePerpendicular spacings.
func (d *ClusterDetector) mergeLinesIntoBlocks(lines []model.Line, spectrum NeighborSpectrum) [][]model.Line {
	if len(lines) == 0 {
		return nil
	}

	slack := d.config.MergePerpendicular * spectrum.Spacing
	adjacent := func(a, b model.Line) bool {
		avgHeight := (a.Height + b.Height) / 2
		if a.BBox.VerticalGap(b.BBox) >= d.config.MergeParallel*avgHeight {
			return false
		}
		overlap := minFloat(a.BBox.X1, b.BBox.X1) - maxFloat(a.BBox.X0, b.BBox.X0)
		return overlap > -slack
	}

	visited := make([]bool, len(lines))
	var groups [][]model.Line
	for start := range lines {
		if visited[start] {
			continue
		}
		visited[start] = true
		group := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for next := range lines {
				if visited[next] || !adjacent(lines[current], lines[next]) {
					continue
				}
				visited[next] = true
				group = append(group, next)
				queue = append(queue, next)
			}
		}

		sort.Slice(group, func(i, j int) bool {
			if lines[group[i]].BBox.Y0 != lines[group[j]].BBox.Y0 {
				return lines[group[i]].BBox.Y0 < lines[group[j]].BBox.Y0
			}
			return lines[group[i]].BBox.X0 < lines[group[j]].BBox.X0
		})
		members := make([]model.Line, len(group))
		for i, idx := range group {
			members[i] = lines[idx]
		}
		groups = append(groups, members)
	}
	return groups
}

// finalizeBlock assembles a block from its lines, infers alignment, and
// fills per-line spacing and indentation.
func (d *ClusterDetector) finalizeBlock(lines []model.Line) *model.Block {
	block := model.NewBlock(lines)
	block.Alignment = d.inferAlignment(lines)

	for i := range block.Lines {
		block.Lines[i].Alignment = block.Alignment
		block.Lines[i].Indentation = block.Lines[i].BBox.X0 - block.BBox.X0
		if i > 0 {
			block.Lines[i].SpacingBefore = block.Lines[i-1].BBox.VerticalGap(block.Lines[i].BBox)
		}
	}
	return block
}

// inferAlignment classifies a block's alignment from the variance of its
// line edges and centers. Aligned left and right edges together indicate
// justified text; a single-line block defaults to left.
func (d *ClusterDetector) inferAlignment(lines []model.Line) model.Alignment {
	if len(lines) <= 1 {
		return model.AlignLeft
	}

	lefts := make([]float64, len(lines))
	rights := make([]float64, len(lines))
	centers := make([]float64, len(lines))
	for i, line := range lines {
		lefts[i] = line.BBox.X0
		rights[i] = line.BBox.X1
		centers[i] = (line.BBox.X0 + line.BBox.X1) / 2
	}

	tol := d.config.AlignmentTolerance
	leftAligned := stdDev(lefts) <= tol
	rightAligned := stdDev(rights) <= tol
	centerAligned := stdDev(centers) <= tol

	switch {
	case leftAligned && rightAligned:
		return model.AlignJustified
	case leftAligned:
		return model.AlignLeft
	case centerAligned:
		return model.AlignCenter
	case rightAligned:
		return model.AlignRight
	default:
		return model.AlignLeft
	}
}

// stdDev returns the population standard deviation
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// angleDelta returns the smallest difference between two line orientations
// in degrees, accounting for the wrap at +-90.
func angleDelta(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 90 {
		diff = 180 - diff
	}
	return diff
}

// Helper functions

// maxFloat returns the larger of two float64 values
func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// minFloat returns the smaller of two float64 values
func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// absFloat returns the absolute value of a float64
func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ClusterLayout methods

// BlockCount returns the number of detected blocks
func (l *ClusterLayout) BlockCount() int {
	if l == nil {
		return 0
	}
	return len(l.Blocks)
}

// LineCount returns the total number of lines across all blocks
func (l *ClusterLayout) LineCount() int {
	if l == nil {
		return 0
	}
	total := 0
	for _, b := range l.Blocks {
		total += len(b.Lines)
	}
	return total
}

// GetBlock returns a specific block by index
func (l *ClusterLayout) GetBlock(index int) *model.Block {
	if l == nil || index < 0 || index >= len(l.Blocks) {
		return nil
	}
	return l.Blocks[index]
}

// GetText returns all block text in page order separated by blank lines
func (l *ClusterLayout) GetText() string {
	if l == nil || len(l.Blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if t := b.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
