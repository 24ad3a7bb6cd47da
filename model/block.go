package model

import (
	"fmt"
	"strings"
)

// BlockKind identifies the semantic type of a block. The set is closed:
// analysis stages switch over it exhaustively, and every switch carries a
// default arm with the plain-text behavior so an unrecognized value can
// never change layout results.
type BlockKind int

const (
	// BlockText is unclassified plain text, the fallback for every
	// low-confidence classification.
	BlockText BlockKind = iota
	// BlockParagraph is a confirmed body paragraph
	BlockParagraph
	// BlockHeading is a heading (level carried in Meta.HeadingLevel)
	BlockHeading
	// BlockList is a list region (nesting and marker style in Meta)
	BlockList
	// BlockCode is a code or preformatted region
	BlockCode
	// BlockQuote is a block quotation
	BlockQuote
	// BlockRule is a horizontal rule or separator
	BlockRule
	// BlockTable marks a region recovered as a table; Meta.LinkTarget
	// indexes the page's Tables list.
	BlockTable
	// BlockCaption is a table/figure caption; Meta.LinkTarget indexes
	// the caption's target block, -1 when unlinked.
	BlockCaption
	// BlockFootnote is footnote content found in the page's footer region
	BlockFootnote
)

var blockKindNames = map[BlockKind]string{
	BlockText:      "text",
	BlockParagraph: "paragraph",
	BlockHeading:   "heading",
	BlockList:      "list",
	BlockCode:      "code",
	BlockQuote:     "quote",
	BlockRule:      "rule",
	BlockTable:     "table",
	BlockCaption:   "caption",
	BlockFootnote:  "footnote",
}

// String returns a human-readable representation of the block kind
func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "text"
}

// MarshalText encodes the kind as its string name
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its string name
func (k *BlockKind) UnmarshalText(text []byte) error {
	name := string(text)
	for kind, kindName := range blockKindNames {
		if kindName == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown block kind %q", name)
}

// Alignment represents the horizontal alignment of a line or block
type Alignment int

const (
	AlignUnknown Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
)

var alignmentNames = map[Alignment]string{
	AlignUnknown:   "unknown",
	AlignLeft:      "left",
	AlignCenter:    "center",
	AlignRight:     "right",
	AlignJustified: "justified",
}

// String returns a string representation of the alignment
func (a Alignment) String() string {
	if name, ok := alignmentNames[a]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the alignment as its string name
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an alignment from its string name
func (a *Alignment) UnmarshalText(text []byte) error {
	name := string(text)
	for align, alignName := range alignmentNames {
		if alignName == name {
			*a = align
			return nil
		}
	}
	return fmt.Errorf("unknown alignment %q", name)
}

// CheckState is the checkbox state of a list item block
type CheckState int

const (
	// CheckNone means the block carries no checkbox
	CheckNone CheckState = iota
	// CheckUnchecked is an empty checkbox marker
	CheckUnchecked
	// CheckChecked is a filled or ticked checkbox marker
	CheckChecked
)

var checkStateNames = map[CheckState]string{
	CheckNone:      "none",
	CheckUnchecked: "unchecked",
	CheckChecked:   "checked",
}

// String returns a string representation of the checkbox state
func (s CheckState) String() string {
	if name, ok := checkStateNames[s]; ok {
		return name
	}
	return "none"
}

// MarshalText encodes the state as its string name
func (s CheckState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a checkbox state from its string name
func (s *CheckState) UnmarshalText(text []byte) error {
	name := string(text)
	for state, stateName := range checkStateNames {
		if stateName == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown checkbox state %q", name)
}

// BlockMeta carries classification metadata derived for a block. Fields
// are meaningful only for the kinds noted; the zero value means "not
// set" except LinkTarget, whose none value is -1.
type BlockMeta struct {
	// HeadingLevel is 1-6 for heading blocks, 0 otherwise
	HeadingLevel int `json:"heading_level,omitempty"`

	// ListNesting is the 0-based nesting level for list blocks
	ListNesting int `json:"list_nesting,omitempty"`

	// ListOrdered marks numbered (rather than bulleted) lists
	ListOrdered bool `json:"list_ordered,omitempty"`

	// Checkbox is the checkbox state for checklist items
	Checkbox CheckState `json:"checkbox,omitempty"`

	// LanguageHint is the guessed language for code blocks ("go",
	// "python", ...), empty when unknown.
	LanguageHint string `json:"language_hint,omitempty"`

	// LinkTarget is an index whose meaning depends on the kind: for
	// table blocks it indexes Page.Tables, for captions the linked
	// target block, -1 when there is no link.
	LinkTarget int `json:"link_target"`

	// QuoteNesting is the nesting depth for quote blocks
	QuoteNesting int `json:"quote_nesting,omitempty"`
}

// NewBlockMeta returns metadata with no links
func NewBlockMeta() BlockMeta {
	return BlockMeta{LinkTarget: -1}
}

// Line represents a single line of text inside a block
type Line struct {
	// BBox is the bounding box of the line
	BBox BBox `json:"bbox"`

	// Components are the text components on this line, sorted left to
	// right along the reading direction.
	Components []TextComponent `json:"components,omitempty"`

	// Text is the assembled text content of the line
	Text string `json:"text"`

	// Baseline is the Y coordinate of the text baseline
	Baseline float64 `json:"baseline,omitempty"`

	// Height is the line height (max component height)
	Height float64 `json:"height,omitempty"`

	// SpacingBefore is the vertical space from the previous line in the
	// block (0 for the first line).
	SpacingBefore float64 `json:"spacing_before,omitempty"`

	// AverageFontSize is the average font size of components in this line
	AverageFontSize float64 `json:"average_font_size,omitempty"`

	// Indentation is the left offset relative to the block's left edge
	Indentation float64 `json:"indentation,omitempty"`

	// Alignment is the detected horizontal alignment
	Alignment Alignment `json:"alignment,omitempty"`
}

// IsBold reports whether the majority of the line's characters are bold
func (l Line) IsBold() bool {
	bold, total := 0, 0
	for _, c := range l.Components {
		n := c.CharCount()
		total += n
		if c.Bold {
			bold += n
		}
	}
	return total > 0 && bold*2 > total
}

// Block is a clustered page region carrying its semantic classification.
// Blocks are produced once by clustering, then annotated exactly once
// with kind, confidence, and metadata; they are never restructured.
type Block struct {
	// Kind is the block's semantic type
	Kind BlockKind `json:"kind"`

	// BBox is the region covered by the block
	BBox BBox `json:"bbox"`

	// Lines are the block's text lines, top to bottom
	Lines []Line `json:"lines,omitempty"`

	// Confidence is the classification confidence in [0, 1]
	Confidence float64 `json:"confidence"`

	// ReadingOrder is the block's position in the page reading sequence
	ReadingOrder int `json:"reading_order"`

	// Alignment is the dominant alignment across the block's lines
	Alignment Alignment `json:"alignment,omitempty"`

	// Meta holds kind-specific classification metadata
	Meta BlockMeta `json:"meta"`
}

// NewBlock creates an unclassified text block over the given lines
func NewBlock(lines []Line) *Block {
	b := &Block{
		Kind:  BlockText,
		Lines: lines,
		Meta:  NewBlockMeta(),
	}
	for i, line := range lines {
		if i == 0 {
			b.BBox = line.BBox
		} else {
			b.BBox = b.BBox.Union(line.BBox)
		}
	}
	return b
}

// Text returns the block's assembled text, lines joined with newlines.
// Safe to call on a nil block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	parts := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, "\n")
}

// LineCount returns the number of lines in the block.
// Safe to call on a nil block.
func (b *Block) LineCount() int {
	if b == nil {
		return 0
	}
	return len(b.Lines)
}

// ComponentCount returns the total number of components across all lines.
// Safe to call on a nil block.
func (b *Block) ComponentCount() int {
	if b == nil {
		return 0
	}
	count := 0
	for _, line := range b.Lines {
		count += len(line.Components)
	}
	return count
}

// Components returns all components across all lines in line order.
// Safe to call on a nil block.
func (b *Block) Components() []TextComponent {
	if b == nil {
		return nil
	}
	comps := make([]TextComponent, 0, b.ComponentCount())
	for _, line := range b.Lines {
		comps = append(comps, line.Components...)
	}
	return comps
}

// AverageFontSize returns the character-weighted average font size of
// the block, 0 for empty blocks. Safe to call on a nil block.
func (b *Block) AverageFontSize() float64 {
	if b == nil {
		return 0
	}
	var sum float64
	var chars int
	for _, line := range b.Lines {
		for _, c := range line.Components {
			n := c.CharCount()
			sum += c.FontSize * float64(n)
			chars += n
		}
	}
	if chars == 0 {
		return 0
	}
	return sum / float64(chars)
}

// AverageLineHeight returns the mean line height, 0 for empty blocks.
// Safe to call on a nil block.
func (b *Block) AverageLineHeight() float64 {
	if b == nil || len(b.Lines) == 0 {
		return 0
	}
	var sum float64
	for _, line := range b.Lines {
		sum += line.Height
	}
	return sum / float64(len(b.Lines))
}
