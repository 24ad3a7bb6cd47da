package model

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Page holds one page's complete analysis output. Blocks, Tables,
// Captions and Footnotes are parallel views: table and caption blocks
// reference entries in the side lists through Meta.LinkTarget, and every
// side-list entry carries the page number and geometry needed for
// downstream interleaving.
type Page struct {
	// Number is the 1-indexed page number, set by Document.AddPage
	Number int `json:"number"`

	// Width and Height are the page dimensions in page units
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Blocks are the typed blocks in detection order; ReadingOrder maps
	// reading positions to block indices.
	Blocks []*Block `json:"blocks"`

	// Tables, Captions, Footnotes are the structured side lists
	Tables    []*Table    `json:"tables,omitempty"`
	Captions  []*Caption  `json:"captions,omitempty"`
	Footnotes []*Footnote `json:"footnotes,omitempty"`

	// ReadingOrder is a permutation of block indices: ReadingOrder[i]
	// is the index of the i-th block in reading sequence.
	ReadingOrder []int `json:"reading_order,omitempty"`
}

// NewPage creates an empty page with the given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
		Blocks: make([]*Block, 0),
	}
}

// BBox returns the page's bounding box
func (p *Page) BBox() BBox {
	if p == nil {
		return BBox{}
	}
	return BBox{X1: p.Width, Y1: p.Height}
}

// AddBlock appends a block and returns its index
func (p *Page) AddBlock(block *Block) int {
	p.Blocks = append(p.Blocks, block)
	return len(p.Blocks) - 1
}

// BlocksInReadingOrder returns the blocks sorted by the page's reading
// order. When no reading order was computed the blocks are returned in
// detection order. Safe to call on nil.
func (p *Page) BlocksInReadingOrder() []*Block {
	if p == nil {
		return nil
	}
	if len(p.ReadingOrder) != len(p.Blocks) {
		return p.Blocks
	}
	ordered := make([]*Block, 0, len(p.Blocks))
	for _, idx := range p.ReadingOrder {
		if idx >= 0 && idx < len(p.Blocks) {
			ordered = append(ordered, p.Blocks[idx])
		}
	}
	return ordered
}

// Text returns the page's text with blocks in reading order, blocks
// separated by blank lines. Safe to call on nil.
func (p *Page) Text() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(p.Blocks))
	for _, block := range p.BlocksInReadingOrder() {
		if text := block.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// BlocksOfKind returns the page's blocks of one kind in reading order.
// Safe to call on nil.
func (p *Page) BlocksOfKind(kind BlockKind) []*Block {
	if p == nil {
		return nil
	}
	var out []*Block
	for _, block := range p.BlocksInReadingOrder() {
		if block.Kind == kind {
			out = append(out, block)
		}
	}
	return out
}

// Document is a complete analyzed document: pages plus the shared font
// statistics the pages were classified against.
type Document struct {
	Pages []*Page         `json:"pages"`
	Fonts *FontStatistics `json:"fonts,omitempty"`
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages: make([]*Page, 0),
	}
}

// AddPage adds a page to the document and assigns its number
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by number (1-indexed), nil when out of range
func (d *Document) GetPage(number int) *Page {
	if d == nil || number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the total number of pages. Safe to call on nil.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Text returns the document text, pages in order. Safe to call on nil.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Pages))
	for _, page := range d.Pages {
		parts = append(parts, page.Text())
	}
	return strings.Join(parts, "\n\n")
}

// AllTables returns all tables across pages, ordered by page then
// vertical position. Safe to call on nil.
func (d *Document) AllTables() []*Table {
	if d == nil {
		return nil
	}
	var tables []*Table
	for _, page := range d.Pages {
		tables = append(tables, page.Tables...)
	}
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].Page != tables[j].Page {
			return tables[i].Page < tables[j].Page
		}
		return tables[i].BBox.Y0 < tables[j].BBox.Y0
	})
	return tables
}

// OutlineEntry represents one heading in the document outline
type OutlineEntry struct {
	Level int     // Heading level (1-6)
	Text  string  // Heading text
	Page  int     // Page number (1-indexed)
	BBox  BBox    // Position on page
	Order int     // Reading order on the page
	Size  float64 // Average font size of the heading
}

// Outline returns the document's headings in reading order as a flat
// outline. Safe to call on nil.
func (d *Document) Outline() []OutlineEntry {
	if d == nil {
		return nil
	}
	var outline []OutlineEntry
	for _, page := range d.Pages {
		for _, block := range page.BlocksInReadingOrder() {
			if block.Kind != BlockHeading {
				continue
			}
			outline = append(outline, OutlineEntry{
				Level: block.Meta.HeadingLevel,
				Text:  block.Text(),
				Page:  page.Number,
				BBox:  block.BBox,
				Order: block.ReadingOrder,
				Size:  block.AverageFontSize(),
			})
		}
	}
	return outline
}

// Encode writes the document as JSON. The encoding is lossless for all
// structural fields (kinds, geometry, content, style, confidence,
// ordering, metadata); derived layout trees, spatial graphs and indexes
// are never persisted.
func (d *Document) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// DecodeDocument reads a document previously written by Encode
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}
