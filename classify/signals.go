package classify

import (
	"math"
	"strings"
	"unicode"

	"github.com/tsawler/strata/model"
	"golang.org/x/text/unicode/norm"
)

// marginBucketWidth groups block left edges when voting for the body
// margin.
const marginBucketWidth = 5.0

// minWidthSampleChars is the smallest character sample from which the
// width coefficient of variation is considered stable.
const minWidthSampleChars = 10

// PageContext carries the page-level measurements shared by every
// block's signal extraction.
type PageContext struct {
	// Fonts are the document font statistics; BodySize anchors all
	// size-ratio signals.
	Fonts *model.FontStatistics

	// PageWidth and PageHeight are the page dimensions
	PageWidth  float64
	PageHeight float64

	// BodyLeftMargin is the dominant block left edge on the page
	BodyLeftMargin float64
}

// LanguageHitCount is the keyword hit count for one language table
type LanguageHitCount struct {
	Language string
	Hits     int
}

// Signals is the pre-computed measurement set for one block. Fields
// are raw observations; the scoring functions apply all thresholds and
// weights.
type Signals struct {
	// Text is the NFKC-normalized block text, lines joined with
	// newlines.
	Text string

	// LineTexts are the normalized, trimmed per-line texts
	LineTexts []string

	// LineCount and WordCount describe the block's extent
	LineCount int
	WordCount int

	// SizeRatio is the block's average font size over the document
	// body size, 0 when no body size is known.
	SizeRatio float64

	// BoldRatio is the fraction of characters set in a bold face
	BoldRatio float64

	// TopFraction is the block's top edge as a fraction of page height
	TopFraction float64

	// Alignment is the block's detected alignment
	Alignment model.Alignment

	// WidthRatio is block width over page width
	WidthRatio float64

	// LeftOffset is the block's left edge minus the body left margin
	LeftOffset float64

	// Indents are per-line left offsets relative to the block's left
	// edge.
	Indents []float64

	// Markers are the per-line list marker detections; MarkerLines is
	// the number of lines carrying one.
	Markers     []Marker
	MarkerLines int

	// CharWidthCV is the coefficient of variation of per-character
	// component widths, -1 when the sample is too small to be stable.
	CharWidthCV float64

	// TotalChars is the number of characters across all components
	TotalChars int

	// TotalTokens and KeywordTokens count identifier tokens and how
	// many of them match any language vocabulary.
	TotalTokens   int
	KeywordTokens int

	// KeywordHits counts matches per language, in table order
	KeywordHits []LanguageHitCount

	// LineHasKeyword flags lines containing at least one keyword token
	LineHasKeyword []bool

	// DistinctColors is the number of distinct reported text colors
	DistinctColors int

	// QuoteGlyphLines is the number of lines opening with a quote glyph
	QuoteGlyphLines int

	// RepeatedPunct is true for single-line blocks whose text is a run
	// of repeated punctuation.
	RepeatedPunct bool
}

// ExtractSignals measures a block against its page context. Extraction
// happens once per block; every classifier reads the same value.
func ExtractSignals(block *model.Block, ctx PageContext) Signals {
	sig := Signals{CharWidthCV: -1}
	if block == nil {
		return sig
	}

	// Step 1: normalize text line by line. NFKC folds superscripts,
	// fullwidth forms, and ligatures before any marker or keyword
	// matching.
	sig.LineCount = len(block.Lines)
	sig.LineTexts = make([]string, sig.LineCount)
	sig.Indents = make([]float64, sig.LineCount)
	sig.Markers = make([]Marker, sig.LineCount)
	sig.LineHasKeyword = make([]bool, sig.LineCount)
	for i, line := range block.Lines {
		sig.LineTexts[i] = norm.NFKC.String(strings.TrimSpace(line.Text))
		sig.Indents[i] = line.Indentation
	}
	sig.Text = strings.Join(sig.LineTexts, "\n")
	sig.WordCount = len(strings.Fields(sig.Text))

	// Step 2: geometry against the page.
	sig.Alignment = block.Alignment
	sig.SizeRatio = ctx.Fonts.SizeRatio(block.AverageFontSize())
	if ctx.PageHeight > 0 {
		sig.TopFraction = block.BBox.Y0 / ctx.PageHeight
	} else {
		sig.TopFraction = 1
	}
	if ctx.PageWidth > 0 {
		sig.WidthRatio = block.BBox.Width() / ctx.PageWidth
	}
	sig.LeftOffset = block.BBox.X0 - ctx.BodyLeftMargin

	// Step 3: style coverage from components.
	boldChars := 0
	colors := make(map[model.Color]struct{})
	var widthSamples []float64
	for _, line := range block.Lines {
		for _, comp := range line.Components {
			n := comp.CharCount()
			if n == 0 {
				continue
			}
			sig.TotalChars += n
			if comp.Bold || model.IsBoldFontName(comp.FontName) {
				boldChars += n
			}
			if comp.Color != nil {
				colors[*comp.Color] = struct{}{}
			}
			if w := comp.BBox.Width(); w > 0 {
				widthSamples = append(widthSamples, w/float64(n))
			}
		}
	}
	if sig.TotalChars > 0 {
		sig.BoldRatio = float64(boldChars) / float64(sig.TotalChars)
	}
	sig.DistinctColors = len(colors)
	if sig.TotalChars >= minWidthSampleChars && len(widthSamples) >= 2 {
		sig.CharWidthCV = coefficientOfVariation(widthSamples)
	}

	// Step 4: markers, quote glyphs, and keyword tokens per line.
	sig.KeywordHits = make([]LanguageHitCount, len(languageKeywordTables))
	for t := range languageKeywordTables {
		sig.KeywordHits[t].Language = languageKeywordTables[t].Language
	}
	for i, text := range sig.LineTexts {
		sig.Markers[i] = detectMarker(text)
		if sig.Markers[i].Kind != MarkerNone {
			sig.MarkerLines++
		}
		if first := firstRune(text); first != 0 && isQuoteGlyph(first) {
			sig.QuoteGlyphLines++
		}
		for _, token := range identifierTokens(text) {
			sig.TotalTokens++
			hit := false
			for t := range languageKeywordTables {
				if _, ok := languageKeywordTables[t].Words[token]; ok {
					sig.KeywordHits[t].Hits++
					hit = true
				}
			}
			if hit {
				sig.KeywordTokens++
				sig.LineHasKeyword[i] = true
			}
		}
	}

	// Step 5: single-line punctuation runs.
	if sig.LineCount == 1 {
		sig.RepeatedPunct = isRepeatedPunctuation(sig.LineTexts[0])
	}

	return sig
}

// ComputeBodyMargin returns the dominant block left edge: the mode of
// left edges bucketed to 5 units, weighted by line count so body
// paragraphs outvote stray labels. Ties go to the smaller edge.
// Returns 0 when no block carries lines.
func ComputeBodyMargin(blocks []*model.Block) float64 {
	votes := make(map[float64]int)
	for _, b := range blocks {
		if b == nil || len(b.Lines) == 0 {
			continue
		}
		bucket := math.Round(b.BBox.X0/marginBucketWidth) * marginBucketWidth
		votes[bucket] += len(b.Lines)
	}
	if len(votes) == 0 {
		return 0
	}
	best := math.Inf(1)
	bestVotes := -1
	for bucket, count := range votes {
		if count > bestVotes || (count == bestVotes && bucket < best) {
			best = bucket
			bestVotes = count
		}
	}
	return best
}

// identifierTokens splits text into identifier-shaped tokens: maximal
// runs of letters, digits, and underscores.
func identifierTokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// coefficientOfVariation is the sample standard deviation over the
// mean, -1 for empty or non-positive-mean samples.
func coefficientOfVariation(samples []float64) float64 {
	if len(samples) == 0 {
		return -1
	}
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))
	if mean <= 0 {
		return -1
	}
	variance := 0.0
	for _, s := range samples {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return math.Sqrt(variance) / mean
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
