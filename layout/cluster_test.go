package layout

import (
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

func TestClusterDetector_EmptyInput(t *testing.T) {
	detector := NewClusterDetector()
	layout := detector.Detect(nil, 612, 792)

	if layout == nil {
		t.Fatal("Expected non-nil layout")
	}
	if layout.BlockCount() != 0 {
		t.Errorf("Expected 0 blocks, got %d", layout.BlockCount())
	}
	if layout.PageWidth != 612 || layout.PageHeight != 792 {
		t.Errorf("Page dimensions not set correctly")
	}
}

func TestClusterDetector_SingleComponent(t *testing.T) {
	detector := NewClusterDetector()
	components := []model.TextComponent{
		makeComponent("Hello", 100, 100, 140, 112, 12),
	}

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	block := layout.GetBlock(0)
	if block.LineCount() != 1 {
		t.Errorf("Expected 1 line, got %d", block.LineCount())
	}
	if block.Text() != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", block.Text())
	}
	if block.Alignment != model.AlignLeft {
		t.Errorf("Expected left alignment, got %s", block.Alignment)
	}
}

func TestClusterDetector_SingleRow(t *testing.T) {
	detector := NewClusterDetector()
	// Three words on one row with 20 and 30 unit gaps
	components := []model.TextComponent{
		makeComponent("word", 100, 100, 140, 112, 12),
		makeComponent("two", 160, 100, 185, 112, 12),
		makeComponent("test", 215, 100, 245, 112, 12),
	}

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	block := layout.GetBlock(0)
	if block.LineCount() != 1 {
		t.Fatalf("Expected 1 line, got %d", block.LineCount())
	}
	if got := block.Lines[0].Text; got != "word two test" {
		t.Errorf("Expected 'word two test', got '%s'", got)
	}
}

func TestClusterDetector_CollinearComponents(t *testing.T) {
	detector := NewClusterDetector()
	// Eight evenly spaced glyphs on one baseline
	components := glyphRow("abcdefgh", 100, 200, 8, 2, 12)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	if layout.LineCount() != 1 {
		t.Errorf("Expected exactly 1 line, got %d", layout.LineCount())
	}
	if got := layout.GetBlock(0).Lines[0].Text; got != "abcdefgh" {
		t.Errorf("Expected 'abcdefgh', got '%s'", got)
	}
}

func TestClusterDetector_TwoLinesSameBlock(t *testing.T) {
	detector := NewClusterDetector()
	// Two glyph rows 18 units apart (6 unit gap, below the merge threshold)
	components := append(
		glyphRow("abcd", 100, 100, 8, 2, 12),
		glyphRow("efgh", 100, 118, 8, 2, 12)...,
	)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	block := layout.GetBlock(0)
	if block.LineCount() != 2 {
		t.Fatalf("Expected 2 lines, got %d", block.LineCount())
	}
	if block.Lines[0].Text != "abcd" || block.Lines[1].Text != "efgh" {
		t.Errorf("Lines out of order: '%s', '%s'", block.Lines[0].Text, block.Lines[1].Text)
	}
	if got := block.Lines[1].SpacingBefore; got != 6 {
		t.Errorf("Expected spacing 6 before second line, got %.1f", got)
	}
}

func TestClusterDetector_ParagraphSplit(t *testing.T) {
	detector := NewClusterDetector()
	// Third row 30 units below the second: beyond 1.5x line height
	components := append(
		glyphRow("abcd", 100, 100, 8, 2, 12),
		glyphRow("efgh", 100, 118, 8, 2, 12)...,
	)
	components = append(components, glyphRow("ijkl", 100, 160, 8, 2, 12)...)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 2 {
		t.Fatalf("Expected 2 blocks, got %d", layout.BlockCount())
	}
	if layout.GetBlock(0).LineCount() != 2 {
		t.Errorf("Expected 2 lines in first block, got %d", layout.GetBlock(0).LineCount())
	}
	if layout.GetBlock(1).LineCount() != 1 {
		t.Errorf("Expected 1 line in second block, got %d", layout.GetBlock(1).LineCount())
	}
}

func TestClusterDetector_CenteredAlignment(t *testing.T) {
	detector := NewClusterDetector()
	// Three rows of different widths sharing a center at x=300
	components := glyphRow("aaaaaaaaaa", 250, 100, 10, 0, 12)
	components = append(components, glyphRow("bbbbbb", 270, 118, 10, 0, 12)...)
	components = append(components, glyphRow("cccccccc", 260, 136, 10, 0, 12)...)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	block := layout.GetBlock(0)
	if block.LineCount() != 3 {
		t.Fatalf("Expected 3 lines, got %d", block.LineCount())
	}
	if block.Alignment != model.AlignCenter {
		t.Errorf("Expected center alignment, got %s", block.Alignment)
	}
}

func TestClusterDetector_JustifiedAlignment(t *testing.T) {
	detector := NewClusterDetector()
	// Three rows sharing both edges
	components := glyphRow("aaaaaaaaaa", 100, 100, 30, 0, 12)
	components = append(components, glyphRow("bbbbbbbbbb", 100, 118, 30, 0, 12)...)
	components = append(components, glyphRow("cccccccccc", 100, 136, 30, 0, 12)...)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 1 {
		t.Fatalf("Expected 1 block, got %d", layout.BlockCount())
	}
	if got := layout.GetBlock(0).Alignment; got != model.AlignJustified {
		t.Errorf("Expected justified alignment, got %s", got)
	}
}

func TestClusterDetector_SideBySideBlocks(t *testing.T) {
	detector := NewClusterDetector()
	// Two rows on the same baseline separated by a 200 unit gap
	components := append(
		glyphRow("abc", 100, 100, 8, 2, 12),
		glyphRow("xyz", 330, 100, 8, 2, 12)...,
	)

	layout := detector.Detect(components, 612, 792)

	if layout.BlockCount() != 2 {
		t.Fatalf("Expected 2 blocks, got %d", layout.BlockCount())
	}
	if layout.GetBlock(0).BBox.X0 >= layout.GetBlock(1).BBox.X0 {
		t.Errorf("Blocks not ordered left to right")
	}
}

func TestClusterDetector_Spectrum(t *testing.T) {
	detector := NewClusterDetector()
	components := append(
		glyphRow("abcdef", 100, 100, 8, 2, 12),
		glyphRow("ghijkl", 100, 118, 8, 2, 12)...,
	)

	layout := detector.Detect(components, 612, 792)

	if layout.Spectrum.Pairs == 0 {
		t.Fatal("Expected neighbor pairs to be sampled")
	}
	if layout.Spectrum.Spacing <= 0 {
		t.Errorf("Expected positive spacing, got %.2f", layout.Spectrum.Spacing)
	}
	if absFloat(layout.Spectrum.Skew) > 5 {
		t.Errorf("Expected near-horizontal skew, got %.2f", layout.Spectrum.Skew)
	}
}

func TestClusterLayout_NilSafety(t *testing.T) {
	var layout *ClusterLayout

	if layout.BlockCount() != 0 {
		t.Error("BlockCount on nil layout should be 0")
	}
	if layout.LineCount() != 0 {
		t.Error("LineCount on nil layout should be 0")
	}
	if layout.GetBlock(0) != nil {
		t.Error("GetBlock on nil layout should be nil")
	}
	if layout.GetText() != "" {
		t.Error("GetText on nil layout should be empty")
	}
}

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{10, -10, 20},
		{89, -89, 2},
		{-90, 0, 90},
		{45, -45, 90},
	}

	for _, tt := range tests {
		if got := angleDelta(tt.a, tt.b); absFloat(got-tt.want) > 1e-9 {
			t.Errorf("angleDelta(%.0f, %.0f) = %.2f, want %.2f", tt.a, tt.b, got, tt.want)
		}
	}
}
