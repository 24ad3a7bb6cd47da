package classify

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/strata/model"
)

// MarkerKind identifies the leading list marker of a line
type MarkerKind int

const (
	// MarkerNone means no marker was found
	MarkerNone MarkerKind = iota
	// MarkerBullet is an unordered bullet rune
	MarkerBullet
	// MarkerCheckbox is a checkbox rune of either state
	MarkerCheckbox
	// MarkerNumber is a decimal counter ("3." or "3)")
	MarkerNumber
	// MarkerLetter is a single-letter counter ("c." or "C)")
	MarkerLetter
	// MarkerRoman is a roman numeral counter ("iv." or "IV)")
	MarkerRoman
)

// String returns a string representation of the marker kind
func (k MarkerKind) String() string {
	switch k {
	case MarkerBullet:
		return "bullet"
	case MarkerCheckbox:
		return "checkbox"
	case MarkerNumber:
		return "number"
	case MarkerLetter:
		return "letter"
	case MarkerRoman:
		return "roman"
	default:
		return "none"
	}
}

// Ordered reports whether the marker kind carries a counter value
func (k MarkerKind) Ordered() bool {
	return k == MarkerNumber || k == MarkerLetter || k == MarkerRoman
}

// Marker is one line's detected list marker
type Marker struct {
	// Kind is the marker family
	Kind MarkerKind

	// Prefix is the matched marker text, delimiter included
	Prefix string

	// Value is the counter value for ordered kinds: 3 for "3.", 3 for
	// "c.", 4 for "iv.".
	Value int

	// Checked is the state for checkbox markers
	Checked bool
}

// detectMarker inspects normalized line text for a leading list
// marker. Detection order is bullet, number, letter, roman; ordered
// markers require a dot or parenthesis delimiter.
func detectMarker(text string) Marker {
	if text == "" {
		return Marker{}
	}

	runes := []rune(text)
	first := runes[0]
	if isBulletRune(first) {
		// A bullet must stand alone or be followed by whitespace so a
		// leading minus sign or asterisk in prose is not a marker.
		if len(runes) > 1 && !unicode.IsSpace(runes[1]) {
			return Marker{}
		}
		marker := Marker{Kind: MarkerBullet, Prefix: string(first)}
		if isCheckboxRune(first) {
			marker.Kind = MarkerCheckbox
			marker.Checked = isCheckedRune(first)
		}
		return marker
	}

	if m := numberedMarkerPattern.FindStringSubmatch(text); m != nil {
		return Marker{Kind: MarkerNumber, Prefix: strings.TrimSpace(m[0]), Value: parseDecimal(m[1])}
	}
	if m := letterMarkerPattern.FindStringSubmatch(text); m != nil {
		return Marker{Kind: MarkerLetter, Prefix: strings.TrimSpace(m[0]), Value: letterOrdinal(m[1])}
	}
	if m := romanMarkerPattern.FindStringSubmatch(text); m != nil {
		return Marker{Kind: MarkerRoman, Prefix: strings.TrimSpace(m[0]), Value: romanValue(m[1])}
	}
	return Marker{}
}

func parseDecimal(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// letterOrdinal maps a counter letter to its position: a=1, b=2, ...
func letterOrdinal(s string) int {
	if s == "" {
		return 0
	}
	r := unicode.ToLower(rune(s[0]))
	if r >= 'a' && r <= 'z' {
		return int(r-'a') + 1
	}
	return 0
}

var romanDigitValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50,
	'C': 100, 'D': 500, 'M': 1000,
}

// romanValue converts a roman numeral to its integer value
func romanValue(s string) int {
	s = strings.ToUpper(s)
	result, prev := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		val := romanDigitValues[rune(s[i])]
		if val < prev {
			result -= val
		} else {
			result += val
		}
		prev = val
	}
	return result
}

// ListConfig holds configuration for list classification
type ListConfig struct {
	// IndentStep is the indentation increase that opens a new nesting
	// level (default: 15)
	IndentStep float64

	// ContinuationIndent is the minimum extra indentation, beyond the
	// shallowest marker line, for a marker-less line to count as a
	// wrapped item continuation (default: 2)
	ContinuationIndent float64

	// MinMarkerLines is the minimum number of marker lines for a list
	// (default: 2)
	MinMarkerLines int

	// MinConfidence is the floor below which a candidate stays plain
	// text (default: 0.5)
	MinConfidence float64
}

// DefaultListConfig returns the tuned list defaults
func DefaultListConfig() ListConfig {
	return ListConfig{
		IndentStep:         15.0,
		ContinuationIndent: 2.0,
		MinMarkerLines:     2,
		MinConfidence:      0.5,
	}
}

// listClass is the outcome of a successful list classification
type listClass struct {
	confidence float64
	nesting    int
	ordered    bool
	checkbox   model.CheckState
}

// classifyList reports list confidence and metadata for a block, or
// ok=false when the block is not a list. The checkbox state, when the
// dominant markers are checkboxes, is that of the block's first
// checkbox line.
func classifyList(sig Signals, cfg ListConfig) (listClass, bool) {
	// Step 1: gate on marker count. A year or section number opening a
	// paragraph is not a one-item list.
	if sig.MarkerLines == 0 || sig.MarkerLines < cfg.MinMarkerLines {
		return listClass{}, false
	}

	// Step 2: coverage. Marker-less lines count when indented past the
	// shallowest marker line, reading as wrapped item text.
	minMarkerIndent := math.Inf(1)
	for i, m := range sig.Markers {
		if m.Kind != MarkerNone && sig.Indents[i] < minMarkerIndent {
			minMarkerIndent = sig.Indents[i]
		}
	}
	covered := 0
	for i, m := range sig.Markers {
		if m.Kind != MarkerNone || sig.Indents[i] >= minMarkerIndent+cfg.ContinuationIndent {
			covered++
		}
	}
	coverage := float64(covered) / float64(sig.LineCount)

	// Step 3: counter sequence over the dominant marker kind.
	dominant := dominantMarkerKind(sig.Markers)
	confidence := scoreList(coverage, sig.MarkerLines, sequenceIntact(sig.Markers, dominant))
	if confidence < cfg.MinConfidence {
		return listClass{}, false
	}

	// Step 4: nesting from marker indent clusters.
	class := listClass{
		confidence: confidence,
		nesting:    maxIndentLevel(sig, cfg.IndentStep),
		ordered:    dominant.Ordered(),
	}
	if dominant == MarkerCheckbox {
		class.checkbox = firstCheckState(sig.Markers)
	}
	return class, true
}

// dominantMarkerKind returns the most frequent marker kind, ties going
// to the kind seen first.
func dominantMarkerKind(markers []Marker) MarkerKind {
	counts := make(map[MarkerKind]int)
	var seen []MarkerKind
	for _, m := range markers {
		if m.Kind == MarkerNone {
			continue
		}
		if counts[m.Kind] == 0 {
			seen = append(seen, m.Kind)
		}
		counts[m.Kind]++
	}
	best := MarkerNone
	bestCount := 0
	for _, kind := range seen {
		if counts[kind] > bestCount {
			best = kind
			bestCount = counts[kind]
		}
	}
	return best
}

// sequenceIntact reports whether the dominant kind's counters advance
// by exactly one between neighboring marker lines. The sequence need
// not start at 1, so a list continuing from a previous block stays
// intact. Unordered kinds are trivially intact.
func sequenceIntact(markers []Marker, dominant MarkerKind) bool {
	if !dominant.Ordered() {
		return true
	}
	prev := 0
	seen := false
	for _, m := range markers {
		if m.Kind != dominant {
			continue
		}
		if seen && m.Value != prev+1 {
			return false
		}
		prev = m.Value
		seen = true
	}
	return true
}

// maxIndentLevel clusters marker-line indents by proximity and returns
// the deepest resulting level. Indents within one step of a cluster's
// start belong to that cluster.
func maxIndentLevel(sig Signals, step float64) int {
	var indents []float64
	for i, m := range sig.Markers {
		if m.Kind != MarkerNone {
			indents = append(indents, sig.Indents[i])
		}
	}
	if len(indents) == 0 || step <= 0 {
		return 0
	}
	sort.Float64s(indents)
	level := 0
	clusterStart := indents[0]
	for _, indent := range indents[1:] {
		if indent-clusterStart > step {
			level++
			clusterStart = indent
		}
	}
	return level
}

func firstCheckState(markers []Marker) model.CheckState {
	for _, m := range markers {
		if m.Kind == MarkerCheckbox {
			if m.Checked {
				return model.CheckChecked
			}
			return model.CheckUnchecked
		}
	}
	return model.CheckNone
}
