// Package ingest adapts the output of github.com/ledongthuc/pdf into the
// component form the analysis packages consume. It is intentionally thin:
// the extraction library does the parsing, this package only converts
// coordinates and font metadata.
package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/strata/model"
)

// US Letter stands in for pages whose MediaBox is missing or malformed.
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

// fallbackFontSize stands in for runs whose font size was not reported.
const fallbackFontSize = 10

// Page holds the converted content of a single page. Coordinates are
// top-left origin with Y increasing downward, matching the model package.
type Page struct {
	// Number is the 1-based page number
	Number int

	// Width and Height are the page dimensions in points
	Width  float64
	Height float64

	// Components are the positioned text runs in extraction order
	Components []model.TextComponent

	// Drawings are the rectangle primitives the extractor reports
	Drawings []model.Drawing
}

// Source reads pages from a PDF file.
type Source struct {
	file   *os.File
	reader *pdf.Reader
}

// Open opens the PDF at path. The caller must Close the returned Source.
func Open(path string) (*Source, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Source{file: file, reader: reader}, nil
}

// NewSource reads a PDF from r. The caller retains ownership of r, and
// Close on the returned Source does nothing.
func NewSource(r io.ReaderAt, size int64) (*Source, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	return &Source{reader: reader}, nil
}

// Close releases the underlying file, if the Source owns one.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// PageCount returns the number of pages in the document.
func (s *Source) PageCount() int {
	return s.reader.NumPage()
}

// Page extracts one page. Page numbers are 1-based. A page with no
// extractable content yields a Page with empty Components, not an error.
func (s *Source) Page(number int) (Page, error) {
	if number < 1 || number > s.reader.NumPage() {
		return Page{}, fmt.Errorf("page %d out of range 1-%d", number, s.reader.NumPage())
	}

	src := s.reader.Page(number)
	width, height := pageSize(src)
	page := Page{
		Number:     number,
		Width:      width,
		Height:     height,
		Components: []model.TextComponent{},
	}
	if src.V.IsNull() {
		return page, nil
	}

	content := src.Content()
	for _, run := range content.Text {
		comp, ok := componentFromRun(run, height)
		if !ok {
			continue
		}
		page.Components = append(page.Components, comp)
	}
	for _, rect := range content.Rect {
		page.Drawings = append(page.Drawings, drawingFromRect(rect, height))
	}
	return page, nil
}

// Pages extracts every page in the document.
func (s *Source) Pages() ([]Page, error) {
	count := s.reader.NumPage()
	pages := make([]Page, 0, count)
	for number := 1; number <= count; number++ {
		page, err := s.Page(number)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// componentFromRun converts one extracted run. The extractor reports
// bottom-up coordinates with Y at the text baseline; the model wants a
// top-down box, so the run's box spans one font size above the baseline.
func componentFromRun(run pdf.Text, pageHeight float64) (model.TextComponent, bool) {
	if strings.TrimSpace(run.S) == "" {
		return model.TextComponent{}, false
	}

	size := run.FontSize
	if size <= 0 {
		size = fallbackFontSize
	}
	width := run.W
	if width <= 0 {
		// Rough glyph-width guess for runs the extractor left unmeasured.
		width = float64(utf8.RuneCountInString(run.S)) * size * 0.5
	}

	bottom := pageHeight - run.Y
	return model.TextComponent{
		Text:     run.S,
		BBox:     model.NewBBox(run.X, bottom-size, run.X+width, bottom),
		FontName: run.Font,
		FontSize: size,
		Bold:     model.IsBoldFontName(run.Font),
		Italic:   model.IsItalicFontName(run.Font),
	}, true
}

// drawingFromRect converts one extracted rectangle. The extractor does
// not report stroke widths or paint style, so every rectangle becomes a
// stroked outline with a nominal width.
func drawingFromRect(rect pdf.Rect, pageHeight float64) model.Drawing {
	return model.Drawing{
		Start:  model.Point{X: rect.Min.X, Y: pageHeight - rect.Max.Y},
		End:    model.Point{X: rect.Max.X, Y: pageHeight - rect.Min.Y},
		Width:  1,
		IsRect: true,
	}
}

// pageSize resolves the page dimensions from its MediaBox. The key is
// inheritable, so parent nodes are consulted when the page itself has
// none.
func pageSize(page pdf.Page) (float64, float64) {
	v := page.V
	for depth := 0; depth < 16 && !v.IsNull(); depth++ {
		if width, height, ok := sizeFromBox(v.Key("MediaBox")); ok {
			return width, height
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// sizeFromBox reads a [llx lly urx ury] MediaBox array.
func sizeFromBox(box pdf.Value) (float64, float64, bool) {
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return 0, 0, false
	}
	var coords [4]float64
	for i := range coords {
		entry := box.Index(i)
		switch entry.Kind() {
		case pdf.Integer:
			coords[i] = float64(entry.Int64())
		case pdf.Real:
			coords[i] = entry.Float64()
		default:
			return 0, 0, false
		}
	}
	width := coords[2] - coords[0]
	height := coords[3] - coords[1]
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}
