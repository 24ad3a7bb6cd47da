package strata

import (
	"errors"
	"fmt"

	"github.com/tsawler/strata/classify"
	"github.com/tsawler/strata/layout"
	"github.com/tsawler/strata/link"
	"github.com/tsawler/strata/model"
	"github.com/tsawler/strata/tables"
)

// Sentinel errors returned by analysis operations. Match with errors.Is;
// returned errors carry page context via wrapping.
var (
	// ErrNoPageGeometry indicates zero or negative page dimensions
	ErrNoPageGeometry = errors.New("page has no geometry")

	// ErrNoComponents indicates a nil component slice where one is required
	ErrNoComponents = errors.New("no components provided")

	// ErrUnknownDetector indicates an unregistered table detector name
	ErrUnknownDetector = errors.New("unknown table detector")
)

// Analyzer provides a fluent interface for analyzing a page's layout.
// Each configuration method returns a new Analyzer instance, making it
// safe for concurrent use and allowing method chaining. Terminal
// operations run on a private copy, so a configured Analyzer can be
// reused across calls.
type Analyzer struct {
	// Page content
	components []model.TextComponent
	drawings   []model.Drawing
	width      float64
	height     float64

	// Document-level context, nil/absent for standalone pages
	fonts     *model.FontStatistics
	furniture *layout.FurnitureLayout
	pageIndex int

	// Configuration
	options analyzeOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Analyzer with a deep copy of
// options and warnings. This ensures immutability: each chain method
// returns a new instance.
func (e *Analyzer) clone() *Analyzer {
	return &Analyzer{
		components: e.components,
		drawings:   e.drawings,
		width:      e.width,
		height:     e.height,
		fonts:      e.fonts,
		furniture:  e.furniture,
		pageIndex:  e.pageIndex,
		options:    e.options.clone(),
		err:        e.err,
		warnings:   append([]Warning(nil), e.warnings...),
	}
}

// warn records a non-fatal issue against the current page.
func (e *Analyzer) warn(code, message string) {
	e.warnings = append(e.warnings, Warning{
		Code:    code,
		Message: message,
		Page:    e.options.pageNumber,
	})
}

// ============================================================================
// Configuration Methods (each returns a new Analyzer)
// ============================================================================

// WithConfig replaces the configuration for every stage at once.
// Individual stages can still be adjusted afterwards with the more
// specific chain methods.
//
// Example:
//
//	cfg := strata.DefaultConfig()
//	cfg.Tables.MinRows = 3
//	page, _, err := strata.FromComponents(comps, drawings, w, h).WithConfig(cfg).Analyze()
func (e *Analyzer) WithConfig(cfg Config) *Analyzer {
	newExt := e.clone()
	newExt.options.config = cfg
	if tables.GetDetector(cfg.TableDetector) == nil {
		newExt.err = fmt.Errorf("%w: %q", ErrUnknownDetector, cfg.TableDetector)
	}
	return newExt
}

// WithFontStatistics adopts document-level font statistics instead of
// computing them from this page alone. Use this when analyzing pages of
// a larger document so sparse pages classify against the document's
// body size rather than their own.
//
// Example:
//
//	fonts := model.ComputeFontStatistics(allComponents)
//	page, _, err := strata.FromComponents(comps, nil, w, h).WithFontStatistics(fonts).Analyze()
func (e *Analyzer) WithFontStatistics(fonts *model.FontStatistics) *Analyzer {
	newExt := e.clone()
	newExt.fonts = fonts
	return newExt
}

// WithFurniture excludes blocks matching the detected header and footer
// regions from analysis. The page index identifies this page within the
// cross-page detection result.
//
// Example:
//
//	furniture := detector.Detect(pageBlocks)
//	page, _, err := strata.FromComponents(comps, nil, w, h).WithFurniture(furniture, 0).Analyze()
func (e *Analyzer) WithFurniture(furniture *layout.FurnitureLayout, pageIndex int) *Analyzer {
	newExt := e.clone()
	newExt.furniture = furniture
	newExt.pageIndex = pageIndex
	return newExt
}

// PageNumber sets the 1-indexed page number stamped into the assembled
// page and its tables, captions, and footnotes. Defaults to 1.
//
// Example:
//
//	page, _, err := strata.FromComponents(comps, nil, w, h).PageNumber(4).Analyze()
func (e *Analyzer) PageNumber(n int) *Analyzer {
	newExt := e.clone()
	newExt.options.pageNumber = n
	return newExt
}

// TableDetector selects the table detection strategy: "lattice" (ruled
// grid lines), "stream" (text edge alignment), or "hybrid" (both,
// reconciled). The default is "hybrid". An unknown name fails the chain.
//
// Example:
//
//	page, _, err := strata.FromComponents(comps, drawings, w, h).TableDetector("lattice").Analyze()
func (e *Analyzer) TableDetector(name string) *Analyzer {
	newExt := e.clone()
	newExt.options.config.TableDetector = name
	if tables.GetDetector(name) == nil {
		newExt.err = fmt.Errorf("%w: %q", ErrUnknownDetector, name)
	}
	return newExt
}

// SkipTables disables table detection. Blocks inside ruled regions are
// classified like any other text.
//
// Example:
//
//	page, _, err := strata.FromComponents(comps, drawings, w, h).SkipTables().Analyze()
func (e *Analyzer) SkipTables() *Analyzer {
	newExt := e.clone()
	newExt.options.detectTables = false
	return newExt
}

// SkipCaptions disables caption detection and linking.
func (e *Analyzer) SkipCaptions() *Analyzer {
	newExt := e.clone()
	newExt.options.linkCaptions = false
	return newExt
}

// SkipFootnotes disables footnote marker and content matching.
func (e *Analyzer) SkipFootnotes() *Analyzer {
	newExt := e.clone()
	newExt.options.linkFootnotes = false
	return newExt
}

// SkipClassification disables semantic classification. Blocks keep the
// plain text kind; tables, captions, and footnotes still run when
// enabled.
//
// Example:
//
//	page, _, err := strata.FromComponents(comps, nil, w, h).SkipClassification().Analyze()
func (e *Analyzer) SkipClassification() *Analyzer {
	newExt := e.clone()
	newExt.options.classifyBlocks = false
	return newExt
}

// ============================================================================
// Inspection Methods (examine the input without full analysis)
// ============================================================================

// ComponentCount returns the number of text components the page holds.
func (e *Analyzer) ComponentCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	return len(e.components), nil
}

// IsMultiColumn reports whether the page appears to have a multi-column
// layout. This runs a reduced clustering pass over the components.
//
// Example:
//
//	ext := strata.FromComponents(comps, nil, w, h)
//	multiCol, err := ext.IsMultiColumn()
func (e *Analyzer) IsMultiColumn() (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	if e.width <= 0 || e.height <= 0 {
		return false, fmt.Errorf("inspecting page: %w", ErrNoPageGeometry)
	}

	components, _, _ := repairComponents(e.components)
	result := layout.NewAnalyzerWithConfig(e.options.config.Layout).
		QuickAnalyze(components, e.width, e.height)
	return result.Whitespace.ColumnCount() > 1, nil
}

// ============================================================================
// Terminal Operations (execute analysis and return results)
// ============================================================================

// Analyze runs the full pipeline and returns the assembled page.
//
// Returns the page, any warnings encountered during processing, and an
// error if analysis could not run. Warnings indicate non-fatal issues
// (repaired geometry, dropped primitives, fallback paths) where
// analysis succeeded but the input was imperfect.
//
// Example:
//
//	page, warnings, err := strata.FromComponents(comps, drawings, w, h).Analyze()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", strata.FormatWarnings(warnings))
//	}
func (e *Analyzer) Analyze() (*model.Page, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.width <= 0 || e.height <= 0 {
		return nil, nil, fmt.Errorf("analyzing page %d: %w", e.options.pageNumber, ErrNoPageGeometry)
	}
	if e.components == nil {
		return nil, nil, fmt.Errorf("analyzing page %d: %w", e.options.pageNumber, ErrNoComponents)
	}

	run := e.clone()
	page := run.analyze()
	return page, run.warnings, nil
}

// Text runs the full pipeline and returns the page text in reading
// order, blocks separated by blank lines.
//
// Example:
//
//	text, warnings, err := strata.FromComponents(comps, nil, w, h).Text()
func (e *Analyzer) Text() (string, []Warning, error) {
	page, warnings, err := e.Analyze()
	if err != nil {
		return "", warnings, err
	}
	return page.Text(), warnings, nil
}

// Blocks runs the full pipeline and returns the typed blocks in reading
// order.
//
// Example:
//
//	blocks, warnings, err := strata.FromComponents(comps, nil, w, h).Blocks()
func (e *Analyzer) Blocks() ([]*model.Block, []Warning, error) {
	page, warnings, err := e.Analyze()
	if err != nil {
		return nil, warnings, err
	}
	return page.BlocksInReadingOrder(), warnings, nil
}

// Tables runs the full pipeline and returns the detected tables,
// ordered by vertical position.
//
// Example:
//
//	detected, warnings, err := strata.FromComponents(comps, drawings, w, h).Tables()
func (e *Analyzer) Tables() ([]*model.Table, []Warning, error) {
	page, warnings, err := e.Analyze()
	if err != nil {
		return nil, warnings, err
	}
	return page.Tables, warnings, nil
}

// ============================================================================
// Pipeline
// ============================================================================

// tableBlockOverlap is the minimum area overlap ratio for a text block
// to be absorbed into a detected table region.
const tableBlockOverlap = 0.5

// analyze runs the pipeline stages in order. Each stage consumes the
// previous stage's complete output. The receiver is the private run
// copy, so warnings accumulate without touching the caller's chain.
func (e *Analyzer) analyze() *model.Page {
	components := e.sanitizeComponents()
	drawings := e.sanitizeDrawings()

	fonts := e.fonts
	if fonts == nil {
		fonts = model.ComputeFontStatistics(components)
	}

	// Cluster into lines and blocks, with segmentation, graph, tree,
	// and reading order per the layout configuration
	layoutResult := layout.NewAnalyzerWithConfig(e.options.config.Layout).
		Analyze(components, e.width, e.height)
	if layoutResult.UsedRLSA {
		e.warn(WarnClusterFallback, "clustering produced no usable structure; blocks rebuilt from run-length smoothing")
	}
	blocks := layoutResult.Blocks
	order := layoutResult.ReadingOrder

	// Strip repeated headers and footers detected across the document
	if e.furniture != nil {
		kept := e.furniture.ExcludeBlocks(e.pageIndex, blocks, e.height)
		if len(kept) < len(blocks) {
			blocks = kept
			order = e.resolveOrder(blocks)
		}
	}

	// Semantic classification
	if e.options.classifyBlocks {
		classify.NewClassifierWithConfig(e.options.config.Classify).
			Classify(blocks, fonts, e.width, e.height)
	}

	// Table detection; absorbed blocks are retagged before linking so
	// cell text cannot masquerade as captions
	var pageTables []*model.Table
	if e.options.detectTables {
		pageTables = e.detectTables(blocks, drawings)
	}

	// Caption and footnote linking
	var captions []model.Caption
	if e.options.linkCaptions {
		captions = link.NewCaptionLinkerWithConfig(e.options.config.Captions).Link(blocks)
	}
	var footnotes []model.Footnote
	if e.options.linkFootnotes {
		footnotes = link.NewFootnoteLinkerWithConfig(e.options.config.Footnotes).
			Link(blocks, fonts, e.height)
	}

	return e.assemblePage(blocks, order, pageTables, captions, footnotes)
}

// sanitizeComponents repairs swapped bounding box corners and drops
// components with non-finite geometry, recording a warning for each
// repair class.
func (e *Analyzer) sanitizeComponents() []model.TextComponent {
	out, repaired, dropped := repairComponents(e.components)
	if repaired > 0 {
		e.warn(WarnSanitizedGeometry, fmt.Sprintf("repaired %d component bounding boxes with swapped corners", repaired))
	}
	if dropped > 0 {
		e.warn(WarnDroppedComponent, fmt.Sprintf("dropped %d components with non-finite geometry", dropped))
	}
	return out
}

// sanitizeDrawings drops drawings with non-finite geometry. Swapped
// endpoints are left alone; lines are legitimately drawn in either
// direction.
func (e *Analyzer) sanitizeDrawings() []model.Drawing {
	if len(e.drawings) == 0 {
		return nil
	}
	out := make([]model.Drawing, 0, len(e.drawings))
	dropped := 0
	for _, d := range e.drawings {
		if _, ok := d.BBox().Sanitize(); !ok {
			dropped++
			continue
		}
		out = append(out, d)
	}
	if dropped > 0 {
		e.warn(WarnDroppedDrawing, fmt.Sprintf("dropped %d drawings with non-finite geometry", dropped))
	}
	return out
}

// repairComponents is the pure form shared by analysis and inspection:
// returns the usable components plus repair counts.
func repairComponents(components []model.TextComponent) (out []model.TextComponent, repaired, dropped int) {
	out = make([]model.TextComponent, 0, len(components))
	for _, comp := range components {
		box, ok := comp.BBox.Sanitize()
		if !ok {
			dropped++
			continue
		}
		if box != comp.BBox {
			repaired++
			comp.BBox = box
		}
		out = append(out, comp)
	}
	return out, repaired, dropped
}

// detectTables runs the configured detector and retags blocks the
// detected regions absorb. Detection failures degrade to a warning;
// the page is still assembled.
func (e *Analyzer) detectTables(blocks []*model.Block, drawings []model.Drawing) []*model.Table {
	detector := tables.GetDetector(e.options.config.TableDetector)
	if detector == nil {
		e.warn(WarnTableDetection, fmt.Sprintf("unknown table detector %q", e.options.config.TableDetector))
		return nil
	}
	if err := detector.Configure(e.options.config.Tables); err != nil {
		e.warn(WarnTableDetection, fmt.Sprintf("configuring %s detector: %v", detector.Name(), err))
		return nil
	}

	detected, err := detector.Detect(tables.Input{
		Blocks:   blocks,
		Drawings: drawings,
		Width:    e.width,
		Height:   e.height,
	})
	if err != nil {
		e.warn(WarnTableDetection, fmt.Sprintf("detecting tables: %v", err))
		return nil
	}

	for i, table := range detected {
		table.Page = e.options.pageNumber
		for _, block := range blocks {
			if block.BBox.OverlapRatio(table.BBox) >= tableBlockOverlap {
				block.Kind = model.BlockTable
				block.Confidence = table.Confidence
				block.Meta.LinkTarget = i
			}
		}
	}
	return detected
}

// resolveOrder recomputes reading order after furniture exclusion
// changed the block set, reassigning each block's position.
func (e *Analyzer) resolveOrder(blocks []*model.Block) []int {
	boxes := make([]model.BBox, len(blocks))
	for i, b := range blocks {
		boxes[i] = b.BBox
	}
	order := layout.NewReadingOrderResolverWithConfig(e.options.config.Layout.ReadingOrder).Resolve(boxes)
	for position, idx := range order {
		blocks[idx].ReadingOrder = position
	}
	return order
}

// assemblePage stamps page numbers into the side lists and builds the
// final page.
func (e *Analyzer) assemblePage(blocks []*model.Block, order []int, pageTables []*model.Table, captions []model.Caption, footnotes []model.Footnote) *model.Page {
	page := model.NewPage(e.width, e.height)
	page.Number = e.options.pageNumber
	for _, block := range blocks {
		page.AddBlock(block)
	}
	page.ReadingOrder = order
	page.Tables = pageTables

	for i := range captions {
		captions[i].Page = e.options.pageNumber
		page.Captions = append(page.Captions, &captions[i])
	}
	for i := range footnotes {
		footnotes[i].Page = e.options.pageNumber
		page.Footnotes = append(page.Footnotes, &footnotes[i])
	}
	return page
}
