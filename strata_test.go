package strata

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tsawler/strata/model"
)

// makeComponent creates a test component from corner coordinates
func makeComponent(text string, x0, y0, x1, y1, fontSize float64) model.TextComponent {
	return model.TextComponent{
		Text:     text,
		BBox:     model.NewBBox(x0, y0, x1, y1),
		FontName: "Helvetica",
		FontSize: fontSize,
	}
}

// glyphRow creates a row of single-glyph components starting at x0 with
// the given glyph width and gap, all sharing one baseline.
func glyphRow(text string, x0, y0, glyphWidth, gap, height float64) []model.TextComponent {
	var comps []model.TextComponent
	x := x0
	for _, r := range text {
		comps = append(comps, makeComponent(string(r), x, y0, x+glyphWidth, y0+height, height))
		x += glyphWidth + gap
	}
	return comps
}

// twoParagraphs builds two stacked paragraph blocks with enough
// vertical separation to cluster apart.
func twoParagraphs() []model.TextComponent {
	components := glyphRow("abcdef", 100, 100, 8, 2, 12)
	components = append(components, glyphRow("ghijkl", 100, 118, 8, 2, 12)...)
	components = append(components, glyphRow("mnopqr", 100, 190, 8, 2, 12)...)
	components = append(components, glyphRow("stuvwx", 100, 208, 8, 2, 12)...)
	return components
}

// ruledGrid builds the drawings of a fully ruled 2x2 table: horizontal
// lines at each y spanning x0..x1 and vertical lines at each x spanning
// y0..y1.
func ruledGrid(ys, xs []float64, x0, x1, y0, y1 float64) []model.Drawing {
	var drawings []model.Drawing
	for _, y := range ys {
		drawings = append(drawings, model.Drawing{
			Start: model.Point{X: x0, Y: y},
			End:   model.Point{X: x1, Y: y},
			Width: 1,
		})
	}
	for _, x := range xs {
		drawings = append(drawings, model.Drawing{
			Start: model.Point{X: x, Y: y0},
			End:   model.Point{X: x, Y: y1},
			Width: 1,
		})
	}
	return drawings
}

func TestFromComponents_Defaults(t *testing.T) {
	ext := FromComponents(nil, nil, 612, 792)

	if !ext.options.detectTables || !ext.options.linkCaptions || !ext.options.linkFootnotes || !ext.options.classifyBlocks {
		t.Error("expected all stages enabled by default")
	}
	if ext.options.config.TableDetector != "hybrid" {
		t.Errorf("expected hybrid detector by default, got %q", ext.options.config.TableDetector)
	}
	if ext.options.pageNumber != 1 {
		t.Errorf("expected page number 1, got %d", ext.options.pageNumber)
	}
}

func TestAnalyze_SimplePage(t *testing.T) {
	heading := makeComponent("Introduction", 72, 80, 250, 106, 26)
	heading.Bold = true
	components := []model.TextComponent{heading}
	components = append(components, glyphRow("abcdef", 72, 190, 8, 2, 12)...)
	components = append(components, glyphRow("ghijkl", 72, 208, 8, 2, 12)...)
	components = append(components, glyphRow("mnopqr", 72, 280, 8, 2, 12)...)
	components = append(components, glyphRow("stuvwx", 72, 298, 8, 2, 12)...)

	page, warnings, err := FromComponents(components, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for clean input, got %v", warnings)
	}
	if page.Number != 1 {
		t.Errorf("expected page number 1, got %d", page.Number)
	}
	if len(page.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(page.Blocks))
	}
	if len(page.ReadingOrder) != 3 {
		t.Fatalf("expected reading order over 3 blocks, got %v", page.ReadingOrder)
	}

	first := page.BlocksInReadingOrder()[0]
	if first.Kind != model.BlockHeading {
		t.Errorf("expected leading heading block, got %s", first.Kind)
	}
	if first.Text() != "Introduction" {
		t.Errorf("expected heading text 'Introduction', got %q", first.Text())
	}
	if !strings.HasPrefix(page.Text(), "Introduction") {
		t.Errorf("expected page text to start with the heading, got %q", page.Text())
	}
}

func TestAnalyze_EmptyComponents(t *testing.T) {
	page, warnings, err := FromComponents([]model.TextComponent{}, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("empty input should analyze to an empty page: %v", err)
	}
	if len(page.Blocks) != 0 {
		t.Errorf("expected 0 blocks, got %d", len(page.Blocks))
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if page.Text() != "" {
		t.Errorf("expected empty text, got %q", page.Text())
	}
}

func TestAnalyze_NilComponents(t *testing.T) {
	page, _, err := FromComponents(nil, nil, 612, 792).Analyze()
	if !errors.Is(err, ErrNoComponents) {
		t.Fatalf("expected ErrNoComponents, got %v", err)
	}
	if page != nil {
		t.Error("expected nil page on error")
	}
}

func TestAnalyze_NoGeometry(t *testing.T) {
	components := twoParagraphs()

	_, _, err := FromComponents(components, nil, 0, 792).Analyze()
	if !errors.Is(err, ErrNoPageGeometry) {
		t.Fatalf("expected ErrNoPageGeometry for zero width, got %v", err)
	}
	if !strings.Contains(err.Error(), "page 1") {
		t.Errorf("expected page context in error, got %q", err.Error())
	}

	_, _, err = FromComponents(components, nil, 612, -5).Analyze()
	if !errors.Is(err, ErrNoPageGeometry) {
		t.Fatalf("expected ErrNoPageGeometry for negative height, got %v", err)
	}
}

func TestAnalyze_RepairsSwappedCorners(t *testing.T) {
	components := twoParagraphs()
	components = append(components, model.TextComponent{
		Text:     "flip",
		BBox:     model.BBox{X0: 340, Y0: 112, X1: 300, Y1: 100},
		FontSize: 12,
	})

	page, warnings, err := FromComponents(components, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if warnings[0].Code != WarnSanitizedGeometry {
		t.Errorf("expected %s, got %s", WarnSanitizedGeometry, warnings[0].Code)
	}
	if warnings[0].Page != 1 {
		t.Errorf("expected warning on page 1, got %d", warnings[0].Page)
	}
	if !strings.Contains(page.Text(), "flip") {
		t.Error("repaired component should survive into the page text")
	}
}

func TestAnalyze_DropsNonFiniteComponents(t *testing.T) {
	components := twoParagraphs()
	components = append(components, model.TextComponent{
		Text:     "broken",
		BBox:     model.BBox{X0: math.NaN(), Y0: 100, X1: 140, Y1: 112},
		FontSize: 12,
	})

	page, warnings, err := FromComponents(components, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnDroppedComponent {
		t.Fatalf("expected a dropped-component warning, got %v", warnings)
	}
	if strings.Contains(page.Text(), "broken") {
		t.Error("non-finite component should not survive into the page text")
	}
}

func TestAnalyze_DropsNonFiniteDrawings(t *testing.T) {
	components := twoParagraphs()
	drawings := []model.Drawing{
		{Start: model.Point{X: math.Inf(1), Y: 50}, End: model.Point{X: 500, Y: 50}, Width: 1},
	}

	_, warnings, err := FromComponents(components, drawings, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnDroppedDrawing {
		t.Fatalf("expected a dropped-drawing warning, got %v", warnings)
	}
}

func TestAnalyze_TableFromRuledGrid(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("name", 80, 105, 120, 115, 10),
		makeComponent("qty", 210, 105, 245, 115, 10),
		makeComponent("apple", 80, 135, 120, 145, 10),
		makeComponent("1.50", 210, 135, 245, 145, 10),
	}
	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160)

	page, _, err := FromComponents(components, drawings, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(page.Tables))
	}

	table := page.Tables[0]
	if table.Page != 1 {
		t.Errorf("expected table stamped with page 1, got %d", table.Page)
	}
	if table.Method != model.MethodLattice {
		t.Errorf("expected lattice method, got %s", table.Method)
	}
	if table.Rows != 2 || table.Cols != 2 {
		t.Errorf("expected 2x2 table, got %dx%d", table.Rows, table.Cols)
	}

	absorbed := 0
	for _, block := range page.Blocks {
		if block.Kind == model.BlockTable {
			absorbed++
			if block.Meta.LinkTarget != 0 {
				t.Errorf("expected table block linked to table 0, got %d", block.Meta.LinkTarget)
			}
		}
	}
	if absorbed == 0 {
		t.Error("expected blocks inside the ruled region to be retagged as table blocks")
	}
}

func TestSkipTables(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("name", 80, 105, 120, 115, 10),
		makeComponent("qty", 210, 105, 245, 115, 10),
		makeComponent("apple", 80, 135, 120, 145, 10),
		makeComponent("1.50", 210, 135, 245, 145, 10),
	}
	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160)

	page, _, err := FromComponents(components, drawings, 612, 792).SkipTables().Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Tables) != 0 {
		t.Errorf("expected no tables with detection skipped, got %d", len(page.Tables))
	}
	for _, block := range page.Blocks {
		if block.Kind == model.BlockTable {
			t.Error("no block should carry the table kind with detection skipped")
		}
	}
}

func TestTableDetector_UnknownName(t *testing.T) {
	_, _, err := FromComponents(twoParagraphs(), nil, 612, 792).TableDetector("bogus").Analyze()
	if !errors.Is(err, ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.TableDetector = ""
	_, _, err = FromComponents(twoParagraphs(), nil, 612, 792).WithConfig(cfg).Analyze()
	if !errors.Is(err, ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector for empty name, got %v", err)
	}
}

func TestAnalyzer_ChainImmutability(t *testing.T) {
	base := FromComponents(twoParagraphs(), nil, 612, 792)
	poisoned := base.TableDetector("bogus")
	trimmed := base.SkipTables()

	if _, _, err := base.Analyze(); err != nil {
		t.Fatalf("base chain should be unaffected by derived chains: %v", err)
	}
	if _, _, err := poisoned.Analyze(); !errors.Is(err, ErrUnknownDetector) {
		t.Errorf("expected derived chain to keep its error, got %v", err)
	}
	if !base.options.detectTables {
		t.Error("SkipTables on a derived chain must not mutate the base")
	}
	if trimmed.options.detectTables {
		t.Error("expected derived chain to carry the skip flag")
	}
}

func TestAnalyzer_ReusableAfterAnalyze(t *testing.T) {
	ext := FromComponents(twoParagraphs(), nil, 612, 792)

	_, first, err := ext.Analyze()
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	_, second, err := ext.Analyze()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("repeated runs should not accumulate warnings: %d then %d", len(first), len(second))
	}
}

func TestText_JoinsBlocksInOrder(t *testing.T) {
	text, _, err := FromComponents(twoParagraphs(), nil, 612, 792).Text()
	if err != nil {
		t.Fatalf("failed to extract text: %v", err)
	}
	if text != "abcdef\nghijkl\n\nmnopqr\nstuvwx" {
		t.Errorf("unexpected page text: %q", text)
	}
}

func TestBlocks_ReadingOrder(t *testing.T) {
	blocks, _, err := FromComponents(twoParagraphs(), nil, 612, 792).Blocks()
	if err != nil {
		t.Fatalf("failed to extract blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].BBox.Y0 >= blocks[1].BBox.Y0 {
		t.Error("expected top-down reading order")
	}
	if blocks[0].ReadingOrder != 0 || blocks[1].ReadingOrder != 1 {
		t.Error("blocks should carry their reading positions")
	}
}

func TestTables_Terminal(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("name", 80, 105, 120, 115, 10),
		makeComponent("qty", 210, 105, 245, 115, 10),
	}
	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160)

	detected, _, err := FromComponents(components, drawings, 612, 792).Tables()
	if err != nil {
		t.Fatalf("failed to detect tables: %v", err)
	}
	if len(detected) != 1 {
		t.Fatalf("expected 1 table, got %d", len(detected))
	}
}

func TestAnalyze_LinksCaption(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("Figure", 100, 200, 145, 212, 12),
		makeComponent("2:", 152, 200, 162, 212, 12),
		makeComponent("Throughput", 169, 200, 240, 212, 12),
	}
	components = append(components, glyphRow("abcdef", 90, 244, 8, 2, 12)...)
	components = append(components, glyphRow("ghijkl", 90, 262, 8, 2, 12)...)

	page, _, err := FromComponents(components, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Captions) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(page.Captions))
	}

	caption := page.Captions[0]
	if caption.Keyword != "Figure" {
		t.Errorf("expected keyword 'Figure', got %q", caption.Keyword)
	}
	if caption.Number != "2" {
		t.Errorf("expected number '2', got %q", caption.Number)
	}
	if caption.Page != 1 {
		t.Errorf("expected caption stamped with page 1, got %d", caption.Page)
	}
	if !caption.Linked() {
		t.Error("expected caption linked to the block below")
	}
	target := page.Blocks[caption.Target]
	if !strings.Contains(target.Text(), "abcdef") {
		t.Errorf("caption linked to the wrong block: %q", target.Text())
	}
}

func TestSkipCaptions(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("Figure", 100, 200, 145, 212, 12),
		makeComponent("2:", 152, 200, 162, 212, 12),
		makeComponent("Throughput", 169, 200, 240, 212, 12),
	}
	components = append(components, glyphRow("abcdef", 90, 244, 8, 2, 12)...)

	page, _, err := FromComponents(components, nil, 612, 792).SkipCaptions().Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Captions) != 0 {
		t.Errorf("expected no captions with linking skipped, got %d", len(page.Captions))
	}
}

func TestAnalyze_MatchesFootnote(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("The", 100, 200, 130, 210, 10),
		makeComponent("result", 136, 200, 172, 210, 10),
		makeComponent("1", 172.5, 196, 176.5, 202, 6),
		makeComponent("1", 72, 700, 77, 708, 8),
		makeComponent("Measured", 82, 700, 122, 708, 8),
		makeComponent("on", 127, 700, 138, 708, 8),
		makeComponent("a", 143, 700, 148, 708, 8),
		makeComponent("warm", 153, 700, 176, 708, 8),
		makeComponent("cache.", 181, 700, 210, 708, 8),
	}

	page, _, err := FromComponents(components, nil, 612, 792).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Footnotes) != 1 {
		t.Fatalf("expected 1 footnote, got %d", len(page.Footnotes))
	}

	note := page.Footnotes[0]
	if note.Marker != "1" {
		t.Errorf("expected marker '1', got %q", note.Marker)
	}
	if !note.Linked {
		t.Error("expected marker matched to the footer entry")
	}
	if !strings.Contains(note.Content, "warm cache") {
		t.Errorf("unexpected footnote content: %q", note.Content)
	}
	if note.Page != 1 {
		t.Errorf("expected footnote stamped with page 1, got %d", note.Page)
	}
}

func TestSkipFootnotes(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("The", 100, 200, 130, 210, 10),
		makeComponent("result", 136, 200, 172, 210, 10),
		makeComponent("1", 172.5, 196, 176.5, 202, 6),
		makeComponent("1", 72, 700, 77, 708, 8),
		makeComponent("Measured", 82, 700, 122, 708, 8),
	}

	page, _, err := FromComponents(components, nil, 612, 792).SkipFootnotes().Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if len(page.Footnotes) != 0 {
		t.Errorf("expected no footnotes with matching skipped, got %d", len(page.Footnotes))
	}
}

func TestSkipClassification(t *testing.T) {
	page, _, err := FromComponents(twoParagraphs(), nil, 612, 792).SkipClassification().Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	for _, block := range page.Blocks {
		if block.Kind != model.BlockText {
			t.Errorf("expected plain text blocks, got %s", block.Kind)
		}
	}
}

func TestPageNumber_StampsSideLists(t *testing.T) {
	components := []model.TextComponent{
		makeComponent("name", 80, 105, 120, 115, 10),
	}
	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160)

	page, _, err := FromComponents(components, drawings, 612, 792).PageNumber(7).Analyze()
	if err != nil {
		t.Fatalf("failed to analyze page: %v", err)
	}
	if page.Number != 7 {
		t.Errorf("expected page number 7, got %d", page.Number)
	}
	if len(page.Tables) != 1 || page.Tables[0].Page != 7 {
		t.Error("expected the table stamped with page 7")
	}
}

func TestComponentCount(t *testing.T) {
	count, err := FromComponents(twoParagraphs(), nil, 612, 792).ComponentCount()
	if err != nil {
		t.Fatalf("failed to count components: %v", err)
	}
	if count != 24 {
		t.Errorf("expected 24 components, got %d", count)
	}
}

func TestIsMultiColumn_SingleColumn(t *testing.T) {
	multiCol, err := FromComponents(twoParagraphs(), nil, 612, 792).IsMultiColumn()
	if err != nil {
		t.Fatalf("failed to inspect page: %v", err)
	}
	if multiCol {
		t.Error("two stacked paragraphs are not a multi-column layout")
	}

	_, err = FromComponents(twoParagraphs(), nil, 0, 0).IsMultiColumn()
	if !errors.Is(err, ErrNoPageGeometry) {
		t.Errorf("expected ErrNoPageGeometry, got %v", err)
	}
}

func TestMust_ReturnsValue(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestMust_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustAnalyze_ReturnsPage(t *testing.T) {
	page := MustAnalyze(FromComponents(twoParagraphs(), nil, 612, 792).Analyze())
	if page == nil || len(page.Blocks) != 2 {
		t.Error("expected the analyzed page")
	}
}

func TestMustAnalyze_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on error")
		}
	}()
	MustAnalyze(FromComponents(nil, nil, 612, 792).Analyze())
}

func TestFormatWarnings(t *testing.T) {
	if got := FormatWarnings(nil); got != "" {
		t.Errorf("expected empty string for no warnings, got %q", got)
	}

	warnings := []Warning{
		{Code: WarnClusterFallback, Message: "blocks rebuilt", Page: 2},
		{Code: WarnDroppedComponent, Message: "dropped 1 component"},
	}
	got := FormatWarnings(warnings)
	want := "cluster-fallback: blocks rebuilt (page 2)\ndropped-component: dropped 1 component"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
