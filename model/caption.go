package model

import "fmt"

// Caption is a detected table/figure caption and its optional link to a
// target block. Target is -1 when no candidate satisfied the linking
// constraints; the caption itself is still reported.
type Caption struct {
	// Text is the caption's full text
	Text string `json:"text"`

	// BBox is the caption's position
	BBox BBox `json:"bbox"`

	// Keyword is the matched caption keyword ("Table", "Figure", ...)
	Keyword string `json:"keyword,omitempty"`

	// Number is the trailing caption number ("3", "2.1"), empty when
	// absent.
	Number string `json:"number,omitempty"`

	// Confidence is the caption detection confidence in [0, 1]
	Confidence float64 `json:"confidence"`

	// Target is the linked block's index on the page, -1 when unlinked
	Target int `json:"target"`

	// LinkConfidence is the composite link score in [0, 1], 0 when
	// unlinked.
	LinkConfidence float64 `json:"link_confidence,omitempty"`

	// Page is the 1-indexed page the caption was found on
	Page int `json:"page,omitempty"`
}

// Linked reports whether the caption was associated with a target block
func (c *Caption) Linked() bool {
	return c != nil && c.Target >= 0
}

// MarkerKind classifies a footnote marker's alphabet
type MarkerKind int

const (
	// MarkerNumeric covers digit markers ("1", "12")
	MarkerNumeric MarkerKind = iota
	// MarkerSymbol covers symbol markers ("*", "†", "‡", "§")
	MarkerSymbol
	// MarkerLetter covers single-letter markers ("a", "b")
	MarkerLetter
	// MarkerRoman covers roman numeral markers ("i", "iv", "x")
	MarkerRoman
)

var markerKindNames = map[MarkerKind]string{
	MarkerNumeric: "numeric",
	MarkerSymbol:  "symbol",
	MarkerLetter:  "letter",
	MarkerRoman:   "roman",
}

// String returns a human-readable representation of the marker kind
func (k MarkerKind) String() string {
	if name, ok := markerKindNames[k]; ok {
		return name
	}
	return "symbol"
}

// MarshalText encodes the kind as its string name
func (k MarkerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a marker kind from its string name
func (k *MarkerKind) UnmarshalText(text []byte) error {
	name := string(text)
	for kind, kindName := range markerKindNames {
		if kindName == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown marker kind %q", name)
}

// Footnote is a superscript reference marker with its optionally linked
// footer content. A marker without matching content is still reported,
// with reduced confidence and Linked false.
type Footnote struct {
	// Marker is the normalized marker text ("1", "*", "a")
	Marker string `json:"marker"`

	// Kind is the marker's alphabet classification
	Kind MarkerKind `json:"kind"`

	// BBox is the marker's position in the body text
	BBox BBox `json:"bbox"`

	// Content is the linked footer text, empty when unmatched
	Content string `json:"content,omitempty"`

	// ContentBBox is the linked footer region, nil when unmatched
	ContentBBox *BBox `json:"content_bbox,omitempty"`

	// Confidence is the detection confidence in [0, 1], reduced for
	// unmatched markers.
	Confidence float64 `json:"confidence"`

	// Linked reports whether footer content was matched
	Linked bool `json:"linked"`

	// Page is the 1-indexed page the marker was found on
	Page int `json:"page,omitempty"`
}
