package link

import (
	"regexp"
	"strings"

	"github.com/tsawler/strata/model"
	"golang.org/x/text/unicode/norm"
)

// Confidence for a marker with matched footer content, and the reduced
// confidence a dangling marker keeps.
const (
	footnoteMatchedConfidence   = 0.9
	footnoteUnmatchedConfidence = 0.45
)

// footnoteSymbols are the conventional footnote symbol characters
var footnoteSymbols = map[rune]struct{}{
	'*': {}, '†': {}, '‡': {}, '§': {}, '¶': {}, '#': {}, '‖': {},
}

// A footer line opens a footnote when it starts with a short marker,
// optional closing punctuation, and text.
var footerMarkerPattern = regexp.MustCompile(
	"^([0-9]{1,3}|[A-Za-z]{1,3}|[*†‡§¶#‖]{1,3})[.)\\]:]?\\s+(\\S.*)$")

// FootnoteConfig holds configuration for footnote detection
type FootnoteConfig struct {
	// SuperscriptRatio is the body-size ratio below which a component
	// counts as superscript (default: 0.8)
	SuperscriptRatio float64

	// MaxMarkerLength is the longest marker, in characters after
	// normalization (default: 3)
	MaxMarkerLength int

	// FooterRegion is the bottom fraction of the page scanned for
	// footnote content (default: 0.3)
	FooterRegion float64
}

// DefaultFootnoteConfig returns the tuned footnote defaults
func DefaultFootnoteConfig() FootnoteConfig {
	return FootnoteConfig{
		SuperscriptRatio: 0.8,
		MaxMarkerLength:  3,
		FooterRegion:     0.3,
	}
}

// FootnoteLinker finds superscript reference markers in body text and
// matches them against footnote content in the page footer.
type FootnoteLinker struct {
	config FootnoteConfig
}

// NewFootnoteLinker creates a footnote linker with default configuration
func NewFootnoteLinker() *FootnoteLinker {
	return &FootnoteLinker{config: DefaultFootnoteConfig()}
}

// NewFootnoteLinkerWithConfig creates a footnote linker with custom
// configuration.
func NewFootnoteLinkerWithConfig(config FootnoteConfig) *FootnoteLinker {
	return &FootnoteLinker{config: config}
}

// footerEntry is one parsed footer footnote: its marker, its content
// lines, and the region they cover.
type footerEntry struct {
	marker  string
	content []string
	bbox    model.BBox
}

// Link detects superscript markers above the footer region and matches
// each against footer content by exact marker equality. Markers with no
// matching content are still returned, at reduced confidence. Footer
// blocks that yielded content are marked as footnote blocks in place.
func (l *FootnoteLinker) Link(blocks []*model.Block, fonts *model.FontStatistics, pageHeight float64) []model.Footnote {
	if pageHeight <= 0 {
		return nil
	}
	var bodySize float64
	if fonts != nil {
		bodySize = fonts.BodySize
	}
	if bodySize <= 0 {
		return nil
	}

	cutoff := pageHeight * (1 - l.config.FooterRegion)

	markers := l.collectMarkers(blocks, bodySize, cutoff)
	if len(markers) == 0 {
		return nil
	}

	entries := l.collectFooterEntries(blocks, cutoff)
	byMarker := make(map[string]*footerEntry, len(entries))
	for i := range entries {
		if _, seen := byMarker[entries[i].marker]; !seen {
			byMarker[entries[i].marker] = &entries[i]
		}
	}

	for i := range markers {
		entry, ok := byMarker[markers[i].Marker]
		if !ok {
			markers[i].Confidence = footnoteUnmatchedConfidence
			continue
		}
		box := entry.bbox
		markers[i].Content = strings.Join(entry.content, " ")
		markers[i].ContentBBox = &box
		markers[i].Confidence = footnoteMatchedConfidence
		markers[i].Linked = true
	}

	return markers
}

// collectMarkers scans body blocks above the footer cutoff for
// superscript-sized components that normalize to a known marker shape.
func (l *FootnoteLinker) collectMarkers(blocks []*model.Block, bodySize, cutoff float64) []model.Footnote {
	var markers []model.Footnote

	for _, block := range blocks {
		if block == nil || block.BBox.Y0 >= cutoff {
			continue
		}
		for _, line := range block.Lines {
			for _, comp := range line.Components {
				if comp.FontSize <= 0 || comp.FontSize >= bodySize*l.config.SuperscriptRatio {
					continue
				}
				marker := normalizeMarker(comp.Text)
				if marker == "" || len([]rune(marker)) > l.config.MaxMarkerLength {
					continue
				}
				kind, ok := classifyMarker(marker)
				if !ok {
					continue
				}
				markers = append(markers, model.Footnote{
					Marker: marker,
					Kind:   kind,
					BBox:   comp.BBox,
				})
			}
		}
	}

	return markers
}

// collectFooterEntries parses footer-region blocks into footnote
// entries. A line starting with a valid marker opens an entry; other
// lines continue the previous one. Blocks that produced an entry are
// retagged as footnote content.
func (l *FootnoteLinker) collectFooterEntries(blocks []*model.Block, cutoff float64) []footerEntry {
	var entries []footerEntry

	for _, block := range blocks {
		if block == nil || block.BBox.Y0 < cutoff {
			continue
		}

		opened := false
		for _, line := range block.Lines {
			text := norm.NFKC.String(strings.TrimSpace(line.Text))
			if text == "" {
				continue
			}

			if m := footerMarkerPattern.FindStringSubmatch(text); m != nil {
				marker := strings.ToLower(m[1])
				if _, ok := classifyMarker(marker); ok {
					entries = append(entries, footerEntry{
						marker:  marker,
						content: []string{m[2]},
						bbox:    line.BBox,
					})
					opened = true
					continue
				}
			}

			// Continuation of the previous entry
			if len(entries) > 0 && opened {
				last := &entries[len(entries)-1]
				last.content = append(last.content, text)
				last.bbox = last.bbox.Union(line.BBox)
			}
		}

		if opened {
			block.Kind = model.BlockFootnote
		}
	}

	return entries
}

// normalizeMarker folds a raw marker to its canonical form: NFKC turns
// typographic superscripts into plain characters, then case folds.
func normalizeMarker(text string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(text)))
}

// classifyMarker identifies the marker alphabet. Strings of i, v, and x
// count as roman so the sequence i, ii, iii classifies consistently;
// other letters qualify only alone.
func classifyMarker(marker string) (model.MarkerKind, bool) {
	if marker == "" {
		return 0, false
	}

	allDigits, allSymbols, allRoman, allLetters := true, true, true, true
	n := 0
	for _, r := range marker {
		n++
		if r < '0' || r > '9' {
			allDigits = false
		}
		if _, ok := footnoteSymbols[r]; !ok {
			allSymbols = false
		}
		if r != 'i' && r != 'v' && r != 'x' {
			allRoman = false
		}
		if r < 'a' || r > 'z' {
			allLetters = false
		}
	}

	switch {
	case allDigits:
		return model.MarkerNumeric, true
	case allSymbols:
		return model.MarkerSymbol, true
	case allRoman:
		return model.MarkerRoman, true
	case allLetters && n == 1:
		return model.MarkerLetter, true
	}
	return 0, false
}
