package classify

import (
	"math"

	"github.com/tsawler/strata/model"
)

// Every classifier weight lives in this file and nowhere else. Each
// weight group sums to 1 and each partial signal is clamped, so every
// score lands in [0, 1] without renormalization; the sweep tests pin
// that property.

// Heading weights. Size distinctiveness dominates; bold carries the
// run-in headings that match the body size.
const (
	weightHeadingSize     = 0.45
	weightHeadingBold     = 0.30
	weightHeadingPosition = 0.15
	weightHeadingCentered = 0.10
)

// scoreHeading fuses size fit, bold coverage, page position, and
// centering into one heading confidence. Size fit grows linearly from
// the body size and saturates at twice it.
func scoreHeading(sig Signals, cfg HeadingConfig) float64 {
	score := weightHeadingSize * clamp01(sig.SizeRatio-1)
	if sig.BoldRatio > 0.5 {
		score += weightHeadingBold
	}
	if sig.TopFraction <= cfg.TopBandRatio {
		score += weightHeadingPosition
	}
	if sig.Alignment == model.AlignCenter {
		score += weightHeadingCentered
	}
	return clamp01(score)
}

// headingLevel maps a block to its heading level, 0 when the block is
// not heading-shaped. Levels 1 through 5 come from the descending size
// ratio thresholds; level 6 is structural: bold text at or below the
// body size, outside the top band.
func headingLevel(sig Signals, cfg HeadingConfig) int {
	for i, threshold := range cfg.LevelRatios {
		if sig.SizeRatio > threshold {
			return i + 1
		}
	}
	if sig.BoldRatio > 0.5 && sig.TopFraction > cfg.TopBandRatio {
		return 6
	}
	return 0
}

// List weights. Marker coverage dominates; multiple items and an
// intact counter sequence add fixed support, so a broken numbering
// sequence costs exactly weightListSequence.
const (
	weightListCoverage  = 0.60
	weightListMultiItem = 0.20
	weightListSequence  = 0.20
)

// scoreList fuses marker line coverage, item count, and counter
// sequence integrity into one list confidence.
func scoreList(coverage float64, markerLines int, sequenceIntact bool) float64 {
	score := weightListCoverage * clamp01(coverage)
	if markerLines >= 2 {
		score += weightListMultiItem
	}
	if sequenceIntact {
		score += weightListSequence
	}
	return clamp01(score)
}

// Code weights plus the saturation points for the graded signals:
// keyword density stops adding evidence at codeKeywordSaturation, and
// the indented line fraction at codeIndentSaturation.
const (
	weightCodeKeywords  = 0.35
	weightCodeMonospace = 0.30
	weightCodeIndent    = 0.20
	weightCodeColors    = 0.15

	codeKeywordSaturation = 0.15
	codeIndentSaturation  = 0.30
)

// scoreCode fuses keyword density, fixed-pitch evidence, indentation,
// and color variety into one code confidence.
func scoreCode(sig Signals, cfg CodeConfig) float64 {
	score := 0.0
	if sig.TotalTokens > 0 {
		density := float64(sig.KeywordTokens) / float64(sig.TotalTokens)
		score += weightCodeKeywords * clamp01(density/codeKeywordSaturation)
	}
	if sig.CharWidthCV >= 0 && sig.CharWidthCV <= cfg.MaxWidthCV {
		score += weightCodeMonospace
	}
	score += weightCodeIndent * clamp01(indentedLineRatio(sig, cfg.MinIndent)/codeIndentSaturation)
	if sig.DistinctColors >= cfg.MinColors {
		score += weightCodeColors
	}
	return clamp01(score)
}

// Quote weights. The glyph term scales with its line coverage; the
// indent requirement contributes as a fixed term once met.
const (
	weightQuoteGlyphs = 0.60
	weightQuoteIndent = 0.40
)

// scoreQuote fuses the quote glyph line ratio and the indent
// requirement into one quote confidence.
func scoreQuote(glyphRatio float64, indented bool) float64 {
	score := weightQuoteGlyphs * clamp01(glyphRatio)
	if indented {
		score += weightQuoteIndent
	}
	return clamp01(score)
}

// Rule scoring. A confirmed punctuation run starts at ruleBaseScore
// and grows with the fraction of the page width it spans, saturating
// at ruleWidthSaturation.
const (
	ruleBaseScore       = 0.60
	weightRuleWidth     = 0.40
	ruleWidthSaturation = 0.50
)

// scoreRule turns a separator's page width fraction into a confidence.
// Shared by typed punctuation rules and drawing-derived rules.
func scoreRule(widthRatio float64) float64 {
	return clamp01(ruleBaseScore + weightRuleWidth*clamp01(widthRatio/ruleWidthSaturation))
}

// Paragraph weights. Body-sized text is the strongest paragraph
// signal; a zero size ratio (no body statistics) counts as body-sized
// so sparse pages still promote their prose.
const (
	weightParaBodySize  = 0.35
	weightParaMultiLine = 0.25
	weightParaWords     = 0.25
	weightParaAligned   = 0.15

	paraBodySizeTolerance = 0.25
	paraWordSaturation    = 6.0
)

// scoreParagraph rates how much a block reads as body prose
func scoreParagraph(sig Signals) float64 {
	score := 0.0
	if sig.SizeRatio == 0 || math.Abs(sig.SizeRatio-1) <= paraBodySizeTolerance {
		score += weightParaBodySize
	}
	if sig.LineCount >= 2 {
		score += weightParaMultiLine
	}
	score += weightParaWords * clamp01(float64(sig.WordCount)/paraWordSaturation)
	if sig.Alignment != model.AlignUnknown {
		score += weightParaAligned
	}
	return clamp01(score)
}

// fallbackTextConfidence is the neutral confidence carried by blocks
// no classifier claims.
const fallbackTextConfidence = 0.5

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
