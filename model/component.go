package model

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Color represents an RGB color
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Equal reports whether two colors are identical
func (c Color) Equal(other Color) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// TextComponent is an atomic positioned text run supplied by the
// extraction collaborator: a word or glyph cluster with one font and one
// style. Components are immutable once produced; analysis stages read
// them and never write back.
type TextComponent struct {
	// Text is the run's content
	Text string `json:"text"`

	// BBox is the run's position on the page
	BBox BBox `json:"bbox"`

	// FontName is the font family name as reported by the source
	FontName string `json:"font_name,omitempty"`

	// FontSize is the nominal font size in page units
	FontSize float64 `json:"font_size"`

	// Bold and Italic are style flags, either reported by the source or
	// derived from the font name
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`

	// Color is the fill color, nil when the source did not report one
	Color *Color `json:"color,omitempty"`
}

// CharCount returns the number of runes in the component's text
func (c TextComponent) CharCount() int {
	return utf8.RuneCountInString(c.Text)
}

// Center returns the center point of the component's bounding box
func (c TextComponent) Center() Point {
	return c.BBox.Center()
}

// Drawing is a vector primitive from the page's drawing operations: a
// stroked line segment or a filled/stroked rectangle. Drawings feed
// ruling-line table detection and horizontal rule classification.
type Drawing struct {
	// Start and End are the segment endpoints. For rectangles these are
	// opposite corners.
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Width is the stroke width (0 for fills)
	Width float64 `json:"width,omitempty"`

	// Color is the stroke or fill color, nil when unreported
	Color *Color `json:"color,omitempty"`

	// IsRect marks rectangle primitives; RectFill marks filled ones
	IsRect   bool `json:"is_rect,omitempty"`
	RectFill bool `json:"rect_fill,omitempty"`
}

// BBox returns the drawing's bounding box
func (d Drawing) BBox() BBox {
	return NewBBoxFromPoints(d.Start, d.End)
}

// Length returns the segment length
func (d Drawing) Length() float64 {
	return d.Start.Distance(d.End)
}

// IsHorizontal reports whether the drawing is a horizontal segment
// within the given tolerance.
func (d Drawing) IsHorizontal(tolerance float64) bool {
	return math.Abs(d.End.Y-d.Start.Y) <= tolerance
}

// IsVertical reports whether the drawing is a vertical segment within
// the given tolerance.
func (d Drawing) IsVertical(tolerance float64) bool {
	return math.Abs(d.End.X-d.Start.X) <= tolerance
}

// Font name substrings indicating weight, slant, and spacing. Sources
// that do not report style flags still encode them in the font name
// (e.g. "Helvetica-BoldOblique", "CourierNew").
var (
	boldNameParts      = []string{"bold", "black", "heavy", "semibold", "demibold"}
	italicNameParts    = []string{"italic", "oblique"}
	monospaceNameParts = []string{"courier", "mono", "consolas", "menlo", "monaco", "typewriter"}
)

// IsBoldFontName reports whether a font name indicates a bold weight
func IsBoldFontName(name string) bool {
	return nameContainsAny(name, boldNameParts)
}

// IsItalicFontName reports whether a font name indicates an italic or
// oblique slant.
func IsItalicFontName(name string) bool {
	return nameContainsAny(name, italicNameParts)
}

// IsMonospaceFontName reports whether a font name indicates a
// fixed-pitch font.
func IsMonospaceFontName(name string) bool {
	return nameContainsAny(name, monospaceNameParts)
}

func nameContainsAny(name string, parts []string) bool {
	lower := strings.ToLower(name)
	for _, part := range parts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
