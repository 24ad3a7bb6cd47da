package classify

// CodeConfig holds configuration for code classification
type CodeConfig struct {
	// MaxWidthCV is the character-width coefficient of variation at or
	// below which the block counts as fixed-pitch (default: 0.15)
	MaxWidthCV float64

	// MinIndent is the indentation, in page units from the body
	// margin, at which a line counts as indented (default: 8)
	MinIndent float64

	// MinColors is the number of distinct text colors read as syntax
	// highlighting (default: 3)
	MinColors int

	// MinContiguousLines is the minimum run of consecutive qualifying
	// lines for a code block (default: 2)
	MinContiguousLines int

	// MinKeywordHits is the minimum keyword count before a language
	// hint is emitted (default: 2)
	MinKeywordHits int

	// MinConfidence is the floor below which a candidate stays plain
	// text (default: 0.5)
	MinConfidence float64
}

// DefaultCodeConfig returns the tuned code defaults
func DefaultCodeConfig() CodeConfig {
	return CodeConfig{
		MaxWidthCV:         0.15,
		MinIndent:          8.0,
		MinColors:          3,
		MinContiguousLines: 2,
		MinKeywordHits:     2,
		MinConfidence:      0.5,
	}
}

// classifyCode reports code confidence and a language hint for a
// block, or ok=false when the block is not code.
func classifyCode(sig Signals, cfg CodeConfig) (language string, confidence float64, ok bool) {
	if longestQualifyingRun(sig, cfg.MinIndent) < cfg.MinContiguousLines {
		return "", 0, false
	}
	confidence = scoreCode(sig, cfg)
	if confidence < cfg.MinConfidence {
		return "", 0, false
	}
	return dominantLanguage(sig, cfg.MinKeywordHits), confidence, true
}

// effectiveIndent is a line's indentation measured from the body
// margin, so both internal nesting and a margin-offset block count.
// A block left of the margin contributes no offset.
func effectiveIndent(sig Signals, i int) float64 {
	offset := sig.LeftOffset
	if offset < 0 {
		offset = 0
	}
	return offset + sig.Indents[i]
}

// lineQualifies reports whether a line shows code structure on its
// own: a keyword token or indentation past the minimum.
func lineQualifies(sig Signals, i int, minIndent float64) bool {
	return sig.LineHasKeyword[i] || effectiveIndent(sig, i) >= minIndent
}

// longestQualifyingRun returns the longest run of vertically
// consecutive qualifying lines.
func longestQualifyingRun(sig Signals, minIndent float64) int {
	longest, run := 0, 0
	for i := 0; i < sig.LineCount; i++ {
		if lineQualifies(sig, i, minIndent) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// indentedLineRatio is the fraction of lines indented past the minimum
func indentedLineRatio(sig Signals, minIndent float64) float64 {
	if sig.LineCount == 0 {
		return 0
	}
	indented := 0
	for i := 0; i < sig.LineCount; i++ {
		if effectiveIndent(sig, i) >= minIndent {
			indented++
		}
	}
	return float64(indented) / float64(sig.LineCount)
}

// dominantLanguage returns the language with the most keyword hits,
// empty when no language reaches the minimum. Ties resolve to the
// earlier table entry.
func dominantLanguage(sig Signals, minHits int) string {
	best := ""
	bestHits := 0
	for _, hits := range sig.KeywordHits {
		if hits.Hits > bestHits {
			best = hits.Language
			bestHits = hits.Hits
		}
	}
	if bestHits < minHits {
		return ""
	}
	return best
}
