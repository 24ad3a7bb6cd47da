package classify

import (
	"math"
	"unicode"

	"github.com/tsawler/strata/model"
)

// Shape of a typed rule line: at least ruleMinRunes punctuation or
// symbol runes drawn from at most ruleMaxDistinctRunes distinct
// values, so "----" and "- · - ·" qualify and prose never does.
const (
	ruleMinRunes         = 3
	ruleMaxDistinctRunes = 2
)

// drawingRuleTolerance is the allowed vertical drift for a stroked
// line to count as horizontal.
const drawingRuleTolerance = 2.0

// RuleConfig holds configuration for rule classification
type RuleConfig struct {
	// DrawingMinWidthRatio is the minimum span, as a fraction of page
	// width, for a drawn line to read as a separator (default: 0.2)
	DrawingMinWidthRatio float64

	// DrawingMaxThickness is the maximum stroke width or bar height
	// for a separator (default: 3)
	DrawingMaxThickness float64

	// MinConfidence is the floor below which a candidate stays plain
	// text (default: 0.5)
	MinConfidence float64
}

// DefaultRuleConfig returns the tuned rule defaults
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		DrawingMinWidthRatio: 0.2,
		DrawingMaxThickness:  3.0,
		MinConfidence:        0.5,
	}
}

// classifyRule reports rule confidence for a block, or ok=false when
// the block is not a separator line.
func classifyRule(sig Signals, cfg RuleConfig) (float64, bool) {
	if !sig.RepeatedPunct {
		return 0, false
	}
	confidence := scoreRule(sig.WidthRatio)
	if confidence < cfg.MinConfidence {
		return 0, false
	}
	return confidence, true
}

// isRepeatedPunctuation reports whether text, ignoring spaces, is a
// run of repeated punctuation or symbol runes.
func isRepeatedPunctuation(text string) bool {
	distinct := make(map[rune]struct{})
	count := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
		distinct[r] = struct{}{}
		count++
	}
	return count >= ruleMinRunes && len(distinct) <= ruleMaxDistinctRunes
}

// DrawingRules recovers horizontal separator blocks from vector
// drawings: long thin horizontal strokes or filled bars. The returned
// blocks carry no lines and are ready to merge into a page's block
// list.
func (c *Classifier) DrawingRules(drawings []model.Drawing, pageWidth, pageHeight float64) []*model.Block {
	if len(drawings) == 0 || pageWidth <= 0 {
		return nil
	}
	cfg := c.config.Rule
	var rules []*model.Block
	for _, d := range drawings {
		bbox := d.BBox()
		if bbox.Width() < cfg.DrawingMinWidthRatio*pageWidth {
			continue
		}
		if !d.IsRect && !d.IsHorizontal(drawingRuleTolerance) {
			continue
		}
		if !d.IsRect && d.Width > cfg.DrawingMaxThickness {
			continue
		}
		if bbox.Height() > cfg.DrawingMaxThickness {
			continue
		}
		block := model.NewBlock(nil)
		block.Kind = model.BlockRule
		block.BBox = bbox
		block.Confidence = scoreRule(bbox.Width() / pageWidth)
		rules = append(rules, block)
	}
	return rules
}

// QuoteConfig holds configuration for quote classification
type QuoteConfig struct {
	// MinIndent is the minimum left offset beyond the body margin
	// (default: 10)
	MinIndent float64

	// IndentStep is the offset per nesting level (default: 15)
	IndentStep float64

	// MaxNesting caps the reported nesting depth (default: 3)
	MaxNesting int

	// MinConfidence is the floor below which a candidate stays plain
	// text (default: 0.5)
	MinConfidence float64
}

// DefaultQuoteConfig returns the tuned quote defaults
func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		MinIndent:     10.0,
		IndentStep:    15.0,
		MaxNesting:    3,
		MinConfidence: 0.5,
	}
}

// classifyQuote reports quote confidence and nesting depth for a
// block, or ok=false when the block is not a quotation. A quote needs
// both the glyph majority and the indent; either alone is routine
// prose.
func classifyQuote(sig Signals, cfg QuoteConfig) (nesting int, confidence float64, ok bool) {
	if sig.LineCount == 0 {
		return 0, 0, false
	}
	glyphRatio := float64(sig.QuoteGlyphLines) / float64(sig.LineCount)
	indented := sig.LeftOffset >= cfg.MinIndent
	if glyphRatio <= 0.5 || !indented {
		return 0, 0, false
	}
	confidence = scoreQuote(glyphRatio, indented)
	if confidence < cfg.MinConfidence {
		return 0, 0, false
	}
	return quoteNesting(sig.LeftOffset, cfg), confidence, true
}

// quoteNesting converts a left offset into a nesting depth: one level
// per indent step, at least 1, capped.
func quoteNesting(offset float64, cfg QuoteConfig) int {
	if cfg.IndentStep <= 0 {
		return 1
	}
	level := int(math.Round(offset / cfg.IndentStep))
	if level < 1 {
		level = 1
	}
	if level > cfg.MaxNesting {
		level = cfg.MaxNesting
	}
	return level
}
