package classify

import (
	"testing"

	"github.com/tsawler/strata/model"
)

func TestExtractSignals_NilBlock(t *testing.T) {
	sig := ExtractSignals(nil, makeContext(12))

	if sig.LineCount != 0 {
		t.Errorf("Expected 0 lines, got %d", sig.LineCount)
	}
	if sig.CharWidthCV != -1 {
		t.Errorf("Expected width CV sentinel -1, got %f", sig.CharWidthCV)
	}
}

func TestExtractSignals_Geometry(t *testing.T) {
	block := makeBlock(makeLine("Sample words here", 90, 100, 18))

	sig := ExtractSignals(block, makeContext(12))

	if sig.LineCount != 1 || sig.WordCount != 3 {
		t.Errorf("Expected 1 line 3 words, got %d lines %d words", sig.LineCount, sig.WordCount)
	}
	if !floatNear(sig.SizeRatio, 1.5) {
		t.Errorf("Expected size ratio 1.5, got %f", sig.SizeRatio)
	}
	if !floatNear(sig.TopFraction, 100.0/792.0) {
		t.Errorf("Expected top fraction %f, got %f", 100.0/792.0, sig.TopFraction)
	}
	if !floatNear(sig.LeftOffset, 18) {
		t.Errorf("Expected left offset 18, got %f", sig.LeftOffset)
	}
	if sig.WidthRatio <= 0 || sig.WidthRatio >= 1 {
		t.Errorf("Expected width ratio in (0, 1), got %f", sig.WidthRatio)
	}
}

func TestExtractSignals_BoldRatio(t *testing.T) {
	block := makeBlock(
		makeBoldLine("Alpha beta", 72, 100, 12),
		makeLine("gamma delta epsilon", 72, 116, 12),
	)

	sig := ExtractSignals(block, makeContext(12))

	if !floatNear(sig.BoldRatio, 9.0/26.0) {
		t.Errorf("Expected bold ratio %f, got %f", 9.0/26.0, sig.BoldRatio)
	}
}

func TestExtractSignals_WidthVariation(t *testing.T) {
	mono := makeBlock(makeMonoLine("alpha beta gamma", 72, 100, 12))
	prose := makeBlock(makeLine("alpha beta gamma delta", 72, 100, 12))
	tiny := makeBlock(makeLine("ab cd", 72, 100, 12))

	ctx := makeContext(12)

	if cv := ExtractSignals(mono, ctx).CharWidthCV; !floatNear(cv, 0) {
		t.Errorf("Expected zero CV for fixed pitch, got %f", cv)
	}
	if cv := ExtractSignals(prose, ctx).CharWidthCV; cv <= 0.15 {
		t.Errorf("Expected proportional CV above 0.15, got %f", cv)
	}
	if cv := ExtractSignals(tiny, ctx).CharWidthCV; cv != -1 {
		t.Errorf("Expected -1 for a sample below %d chars, got %f", minWidthSampleChars, cv)
	}
}

func TestExtractSignals_NormalizesFullwidthMarkers(t *testing.T) {
	block := makeBlock(
		makeLine("１．first", 72, 100, 12),
		makeLine("２．second", 72, 116, 12),
	)

	sig := ExtractSignals(block, makeContext(12))

	if sig.MarkerLines != 2 {
		t.Fatalf("Expected 2 marker lines after normalization, got %d", sig.MarkerLines)
	}
	if sig.Markers[0].Kind != MarkerNumber || sig.Markers[0].Value != 1 {
		t.Errorf("Unexpected first marker: %+v", sig.Markers[0])
	}
	if sig.Markers[1].Value != 2 {
		t.Errorf("Expected second marker value 2, got %d", sig.Markers[1].Value)
	}
}

func TestExtractSignals_QuoteGlyphLines(t *testing.T) {
	block := makeBlock(
		makeLine("> alpha", 72, 100, 12),
		makeLine("» beta", 72, 116, 12),
		makeLine("gamma", 72, 132, 12),
	)

	sig := ExtractSignals(block, makeContext(12))

	if sig.QuoteGlyphLines != 2 {
		t.Errorf("Expected 2 quote glyph lines, got %d", sig.QuoteGlyphLines)
	}
}

func TestExtractSignals_RepeatedPunct(t *testing.T) {
	single := makeBlock(makeLine("---", 72, 100, 12))
	multi := makeBlock(
		makeLine("---", 72, 100, 12),
		makeLine("---", 72, 116, 12),
	)

	ctx := makeContext(12)

	if !ExtractSignals(single, ctx).RepeatedPunct {
		t.Error("Expected repeated punctuation on a single dash line")
	}
	if ExtractSignals(multi, ctx).RepeatedPunct {
		t.Error("Expected no repeated punctuation flag on multi-line blocks")
	}
}

func TestExtractSignals_KeywordHits(t *testing.T) {
	block := makeBlock(makeLine("func main returns err", 72, 100, 12))

	sig := ExtractSignals(block, makeContext(12))

	if sig.TotalTokens != 4 {
		t.Errorf("Expected 4 tokens, got %d", sig.TotalTokens)
	}
	if sig.KeywordTokens != 2 {
		t.Errorf("Expected 2 keyword tokens, got %d", sig.KeywordTokens)
	}
	if sig.KeywordHits[0].Language != "go" || sig.KeywordHits[0].Hits != 2 {
		t.Errorf("Unexpected first table hits: %+v", sig.KeywordHits[0])
	}
	if !sig.LineHasKeyword[0] {
		t.Error("Expected line 0 flagged as keyword-bearing")
	}
}

func TestComputeBodyMargin(t *testing.T) {
	blocks := []*model.Block{
		makeBlock(
			makeLine("one two three", 72, 100, 12),
			makeLine("four five six", 72, 116, 12),
			makeLine("seven eight", 72, 132, 12),
		),
		makeBlock(
			makeLine("nine ten", 72, 200, 12),
			makeLine("eleven twelve", 72, 216, 12),
		),
		makeBlock(makeLine("label", 144, 300, 12)),
	}

	if got := ComputeBodyMargin(blocks); got != 70 {
		t.Errorf("Expected margin 70, got %f", got)
	}
}

func TestComputeBodyMargin_TieGoesToSmallerEdge(t *testing.T) {
	blocks := []*model.Block{
		makeBlock(
			makeLine("one two", 90, 100, 12),
			makeLine("three four", 90, 116, 12),
		),
		makeBlock(
			makeLine("five six", 72, 200, 12),
			makeLine("seven eight", 72, 216, 12),
		),
	}

	if got := ComputeBodyMargin(blocks); got != 70 {
		t.Errorf("Expected margin 70 on a tie, got %f", got)
	}
}

func TestComputeBodyMargin_Empty(t *testing.T) {
	if got := ComputeBodyMargin(nil); got != 0 {
		t.Errorf("Expected margin 0 for no blocks, got %f", got)
	}
	if got := ComputeBodyMargin([]*model.Block{nil, model.NewBlock(nil)}); got != 0 {
		t.Errorf("Expected margin 0 for lineless blocks, got %f", got)
	}
}

func TestIdentifierTokens(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"fmt.Println(count)", []string{"fmt", "Println", "count"}},
		{"x := y_1 + 2", []string{"x", "y_1", "2"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := identifierTokens(tt.text)
		if len(got) != len(tt.expected) {
			t.Errorf("identifierTokens(%q) = %v, want %v", tt.text, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("identifierTokens(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if got := coefficientOfVariation([]float64{5, 5, 5}); !floatNear(got, 0) {
		t.Errorf("Expected 0 for constant samples, got %f", got)
	}
	if got := coefficientOfVariation([]float64{4, 6}); !floatNear(got, 0.2) {
		t.Errorf("Expected 0.2, got %f", got)
	}
	if got := coefficientOfVariation(nil); got != -1 {
		t.Errorf("Expected -1 for no samples, got %f", got)
	}
	if got := coefficientOfVariation([]float64{0, 0}); got != -1 {
		t.Errorf("Expected -1 for zero mean, got %f", got)
	}
}
