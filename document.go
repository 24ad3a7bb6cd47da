// document.go provides document-level analysis: font statistics shared
// across pages, repeated header/footer stripping, and per-page assembly.
package strata

import (
	"fmt"

	"github.com/tsawler/strata/layout"
	"github.com/tsawler/strata/model"
)

// PageInput is one page's raw material for document analysis.
type PageInput struct {
	// Components are the positioned text runs
	Components []model.TextComponent

	// Drawings are the vector primitives, may be nil
	Drawings []model.Drawing

	// Width and Height are the page dimensions in page units
	Width  float64
	Height float64
}

// AnalyzeDocument analyzes every page of a document. Font statistics
// are computed across all pages before any page is classified, so
// heading detection on sparse pages compares against the document's
// body size rather than the page's own. Headers and footers repeating
// across pages are detected and excluded from the content flow.
//
// Example:
//
//	doc, warnings, err := strata.AnalyzeDocument(pages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, page := range doc.Pages {
//	    fmt.Printf("Page %d: %d blocks, %d tables\n",
//	        page.Number, len(page.Blocks), len(page.Tables))
//	}
func AnalyzeDocument(pages []PageInput) (*model.Document, []Warning, error) {
	return AnalyzeDocumentWithConfig(pages, DefaultConfig())
}

// AnalyzeDocumentWithConfig analyzes every page with custom
// configuration.
func AnalyzeDocumentWithConfig(pages []PageInput, cfg Config) (*model.Document, []Warning, error) {
	for i, input := range pages {
		if input.Width <= 0 || input.Height <= 0 {
			return nil, nil, fmt.Errorf("page %d: %w", i+1, ErrNoPageGeometry)
		}
		if input.Components == nil {
			return nil, nil, fmt.Errorf("page %d: %w", i+1, ErrNoComponents)
		}
	}

	// Document-wide font statistics first, so every page classifies
	// against the same body size
	var all []model.TextComponent
	for _, input := range pages {
		all = append(all, input.Components...)
	}
	fonts := model.ComputeFontStatistics(all)

	furniture := detectFurniture(pages, cfg)

	doc := model.NewDocument()
	doc.Fonts = fonts

	var warnings []Warning
	for i, input := range pages {
		ext := FromPage(input).
			WithConfig(cfg).
			WithFontStatistics(fonts).
			PageNumber(i + 1)
		if furniture != nil {
			ext = ext.WithFurniture(furniture, i)
		}
		page, pageWarnings, err := ext.Analyze()
		if err != nil {
			return nil, warnings, fmt.Errorf("page %d: %w", i+1, err)
		}
		warnings = append(warnings, pageWarnings...)
		doc.AddPage(page)
	}
	return doc, warnings, nil
}

// detectFurniture runs a reduced clustering pass over every page and
// looks for repeating header and footer bands. Pattern detection needs
// at least two pages.
func detectFurniture(pages []PageInput, cfg Config) *layout.FurnitureLayout {
	if len(pages) < 2 {
		return nil
	}

	analyzer := layout.NewAnalyzerWithConfig(cfg.Layout)
	pageBlocks := make([]layout.PageBlocks, 0, len(pages))
	for i, input := range pages {
		components, _, _ := repairComponents(input.Components)
		result := analyzer.QuickAnalyze(components, input.Width, input.Height)
		pageBlocks = append(pageBlocks, layout.PageBlocks{
			PageIndex:  i,
			PageWidth:  input.Width,
			PageHeight: input.Height,
			Blocks:     result.Blocks,
		})
	}
	return layout.NewFurnitureDetectorWithConfig(cfg.Furniture).Detect(pageBlocks)
}
