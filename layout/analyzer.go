package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/strata/model"
)

// AnalyzerConfig holds configuration options for the layout analyzer.
// Each detection component has its own sub-configuration, plus flags to
// enable or disable the optional stages.
type AnalyzerConfig struct {
	// Cluster is the nearest-neighbor clustering configuration
	Cluster ClusterConfig

	// RLSA is the run-length smoothing configuration
	RLSA RLSAConfig

	// XYCut is the projection-profile segmentation configuration
	XYCut XYCutConfig

	// Whitespace is the gap analysis configuration
	Whitespace WhitespaceConfig

	// Graph is the spatial graph configuration
	Graph GraphConfig

	// ReadingOrder is the reading order configuration
	ReadingOrder ReadingOrderConfig

	// UseRLSAFallback enables the run-length smoothing cross-check when
	// clustering produces no usable structure
	UseRLSAFallback bool

	// RLSACoverageTrigger is the page coverage fraction above which a
	// single clustered block is suspect and the cross-check runs
	// (default: 0.9)
	RLSACoverageTrigger float64

	// CrossCheckMinComponents is the minimum component count before the
	// coverage cross-check applies (default: 20)
	CrossCheckMinComponents int

	// SegmentRegions enables projection-profile segmentation
	SegmentRegions bool

	// BuildGraph enables spatial graph construction
	BuildGraph bool

	// BuildTree enables layout tree assembly
	BuildTree bool
}

// DefaultAnalyzerConfig returns a configuration with sensible defaults
// and all stages enabled.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Cluster:                 DefaultClusterConfig(),
		RLSA:                    DefaultRLSAConfig(),
		XYCut:                   DefaultXYCutConfig(),
		Whitespace:              DefaultWhitespaceConfig(),
		Graph:                   DefaultGraphConfig(),
		ReadingOrder:            DefaultReadingOrderConfig(),
		UseRLSAFallback:         true,
		RLSACoverageTrigger:     0.9,
		CrossCheckMinComponents: 20,
		SegmentRegions:          true,
		BuildGraph:              true,
		BuildTree:               true,
	}
}

// AnalysisResult contains the complete layout analysis of one page
type AnalysisResult struct {
	// Blocks are the detected blocks in page order, with ReadingOrder
	// fields assigned
	Blocks []*model.Block

	// Spectrum is the neighbor spectrum clustering derived
	Spectrum NeighborSpectrum

	// Regions is the projection-profile segmentation, when enabled
	Regions *XYCutLayout

	// Whitespace is the column, paragraph, and section analysis
	Whitespace *WhitespaceLayout

	// Graph is the spatial relationship graph, when enabled
	Graph *model.SpatialGraph

	// ReadingOrder lists block indices in reading sequence
	ReadingOrder []int

	// Tree is the containment tree, when enabled
	Tree *model.LayoutTree

	// UsedRLSA reports whether the run-length smoothing cross-check
	// replaced the clustering result
	UsedRLSA bool

	// PageWidth is the width of the page
	PageWidth float64

	// PageHeight is the height of the page
	PageHeight float64
}

// Analyzer orchestrates the layout detection components over one page
type Analyzer struct {
	config       AnalyzerConfig
	cluster      *ClusterDetector
	rlsa         *RLSADetector
	xycut        *XYCutSegmenter
	whitespace   *WhitespaceAnalyzer
	graph        *GraphBuilder
	readingOrder *ReadingOrderResolver
	tree         *TreeBuilder
}

// NewAnalyzer creates a layout analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates a layout analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		config:       config,
		cluster:      NewClusterDetectorWithConfig(config.Cluster),
		rlsa:         NewRLSADetectorWithConfig(config.RLSA),
		xycut:        NewXYCutSegmenterWithConfig(config.XYCut),
		whitespace:   NewWhitespaceAnalyzerWithConfig(config.Whitespace),
		graph:        NewGraphBuilderWithConfig(config.Graph),
		readingOrder: NewReadingOrderResolverWithConfig(config.ReadingOrder),
		tree:         NewTreeBuilder(),
	}
}

// Analyze runs the full layout pipeline over one page's components.
// Every stage consumes the previous stage's complete output; the result
// is immutable once returned.
func (a *Analyzer) Analyze(components []model.TextComponent, pageWidth, pageHeight float64) *AnalysisResult {
	result := &AnalysisResult{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
	}

	// Step 1: Cluster components into lines and blocks
	clustered := a.cluster.Detect(components, pageWidth, pageHeight)
	result.Blocks = clustered.Blocks
	result.Spectrum = clustered.Spectrum

	// Step 2: Cross-check sparse or degenerate clustering with RLSA
	if a.config.UseRLSAFallback && a.needsCrossCheck(result.Blocks, components, pageWidth, pageHeight) {
		if rebuilt := a.rebuildFromRLSA(components, pageWidth, pageHeight); len(rebuilt) > 0 {
			result.Blocks = rebuilt
			result.UsedRLSA = true
		}
	}

	// Step 3: Segment the page by projection profiles
	if a.config.SegmentRegions {
		result.Regions = a.xycut.Segment(blockBoxes(result.Blocks), pageWidth, pageHeight)
	}

	// Step 4: Column, paragraph, and section boundaries
	result.Whitespace = a.whitespace.Analyze(result.Blocks, pageWidth, pageHeight)

	// Step 5: Spatial relationship graph
	if a.config.BuildGraph {
		result.Graph = a.graph.Build(blockBoxes(result.Blocks))
	}

	// Step 6: Reading order
	result.ReadingOrder = a.readingOrder.Resolve(blockBoxes(result.Blocks))
	for position, idx := range result.ReadingOrder {
		result.Blocks[idx].ReadingOrder = position
	}

	// Step 7: Containment tree
	if a.config.BuildTree {
		pageBBox := model.NewBBox(0, 0, pageWidth, pageHeight)
		if tree, err := a.tree.Build(result.Blocks, result.ReadingOrder, pageBBox); err == nil {
			result.Tree = tree
		}
	}

	return result
}

// QuickAnalyze runs clustering and reading order only, skipping the
// segmentation, graph, and tree stages.
func (a *Analyzer) QuickAnalyze(components []model.TextComponent, pageWidth, pageHeight float64) *AnalysisResult {
	quick := a.config
	quick.SegmentRegions = false
	quick.BuildGraph = false
	quick.BuildTree = false
	return NewAnalyzerWithConfig(quick).Analyze(components, pageWidth, pageHeight)
}

// needsCrossCheck reports whether the clustering result looks degenerate:
// either nothing came back for a non-empty page, or everything collapsed
// into a single block covering most of the page.
func (a *Analyzer) needsCrossCheck(blocks []*model.Block, components []model.TextComponent, pageWidth, pageHeight float64) bool {
	if len(components) == 0 {
		return false
	}
	if len(blocks) == 0 {
		return true
	}

	minComponents := a.config.CrossCheckMinComponents
	if minComponents <= 0 {
		minComponents = DefaultAnalyzerConfig().CrossCheckMinComponents
	}
	trigger := a.config.RLSACoverageTrigger
	if trigger <= 0 {
		trigger = DefaultAnalyzerConfig().RLSACoverageTrigger
	}

	if len(blocks) == 1 && len(components) >= minComponents {
		pageArea := pageWidth * pageHeight
		if pageArea > 0 && blocks[0].BBox.Area()/pageArea > trigger {
			return true
		}
	}
	return false
}

// rebuildFromRLSA derives blocks from run-length smoothing regions,
// assigning every component to its containing region, or the nearest one
// when smoothing filtered its area away.
func (a *Analyzer) rebuildFromRLSA(components []model.TextComponent, pageWidth, pageHeight float64) []*model.Block {
	smoothed := a.rlsa.Detect(components, pageWidth, pageHeight)
	if smoothed.RegionCount() < 2 {
		return nil
	}

	groups := make([][]model.TextComponent, smoothed.RegionCount())
	for _, comp := range components {
		center := comp.Center()
		assigned := -1
		for i, region := range smoothed.Regions {
			if region.Contains(center) {
				assigned = i
				break
			}
		}
		if assigned < 0 {
			best := 0.0
			for i, region := range smoothed.Regions {
				dist := center.Distance(region.Center())
				if assigned < 0 || dist < best {
					assigned = i
					best = dist
				}
			}
		}
		groups[assigned] = append(groups[assigned], comp)
	}

	var blocks []*model.Block
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		lines := groupComponentsIntoLines(group)
		blocks = append(blocks, a.cluster.finalizeBlock(lines))
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].BBox.Y0 != blocks[j].BBox.Y0 {
			return blocks[i].BBox.Y0 < blocks[j].BBox.Y0
		}
		return blocks[i].BBox.X0 < blocks[j].BBox.X0
	})
	return blocks
}

// lineGroupTolerance scales component height into the Y distance within
// which two components share a line.
const lineGroupTolerance = 0.5

// groupComponentsIntoLines groups components into lines by Y proximity,
// used when line structure must be recovered without the neighbor
// spectrum.
func groupComponentsIntoLines(components []model.TextComponent) []model.Line {
	if len(components) == 0 {
		return nil
	}

	sorted := make([]model.TextComponent, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool {
		yDiff := sorted[i].BBox.Y0 - sorted[j].BBox.Y0
		tolerance := (sorted[i].BBox.Height() + sorted[j].BBox.Height()) / 2 * lineGroupTolerance
		if absFloat(yDiff) > tolerance {
			return yDiff < 0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var groups [][]model.TextComponent
	var current []model.TextComponent
	for _, comp := range sorted {
		if len(current) == 0 {
			current = append(current, comp)
			continue
		}
		last := current[len(current)-1]
		tolerance := (comp.BBox.Height() + last.BBox.Height()) / 2 * lineGroupTolerance
		if absFloat(comp.BBox.Y0-last.BBox.Y0) <= tolerance {
			current = append(current, comp)
		} else {
			groups = append(groups, current)
			current = []model.TextComponent{comp}
		}
	}
	groups = append(groups, current)

	lines := make([]model.Line, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].BBox.X0 < group[j].BBox.X0
		})
		bbox := group[0].BBox
		for _, comp := range group[1:] {
			bbox = bbox.Union(comp.BBox)
		}
		lines = append(lines, model.Line{
			BBox:            bbox,
			Components:      group,
			Text:            composeLineText(group),
			Baseline:        bbox.Y1,
			Height:          bbox.Height(),
			AverageFontSize: averageFontSize(group),
		})
	}
	return lines
}

// blockBoxes extracts the bounding boxes of a block slice
func blockBoxes(blocks []*model.Block) []model.BBox {
	boxes := make([]model.BBox, len(blocks))
	for i, b := range blocks {
		boxes[i] = b.BBox
	}
	return boxes
}

// AnalysisResult methods

// BlockCount returns the number of detected blocks
func (r *AnalysisResult) BlockCount() int {
	if r == nil {
		return 0
	}
	return len(r.Blocks)
}

// GetBlock returns a specific block by index
func (r *AnalysisResult) GetBlock(index int) *model.Block {
	if r == nil || index < 0 || index >= len(r.Blocks) {
		return nil
	}
	return r.Blocks[index]
}

// BlocksInOrder returns the blocks in reading order
func (r *AnalysisResult) BlocksInOrder() []*model.Block {
	if r == nil {
		return nil
	}
	if len(r.ReadingOrder) != len(r.Blocks) {
		return r.Blocks
	}
	ordered := make([]*model.Block, len(r.Blocks))
	for position, idx := range r.ReadingOrder {
		ordered[position] = r.Blocks[idx]
	}
	return ordered
}

// GetText returns the page text in reading order, blocks separated by
// blank lines.
func (r *AnalysisResult) GetText() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, block := range r.BlocksInOrder() {
		if t := block.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
