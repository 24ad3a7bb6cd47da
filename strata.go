// Package strata provides a fluent API for page-layout analysis: it turns
// positioned text runs and vector drawings into semantically typed blocks
// in reading order, with tables, captions, and footnotes recovered and
// linked.
//
// Basic usage:
//
//	page, warnings, err := strata.FromComponents(comps, drawings, width, height).Analyze()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", strata.FormatWarnings(warnings))
//	}
//	fmt.Println(page.Text())
//
// With options:
//
//	page, _, err := strata.FromComponents(comps, drawings, width, height).
//	    TableDetector("lattice").
//	    SkipFootnotes().
//	    Analyze()
//
// Whole documents go through AnalyzeDocument, which computes font
// statistics across all pages before classifying any of them and strips
// repeated headers and footers:
//
//	doc, warnings, err := strata.AnalyzeDocument(pages)
//
// For advanced use cases the lower-level layout, classify, tables, and
// link packages are also available.
package strata

import (
	"github.com/tsawler/strata/model"
)

// FromComponents creates an Analyzer for one page's content. Components
// are the positioned text runs, drawings the vector primitives (may be
// nil), and width and height the page dimensions in page units.
//
// Example:
//
//	page, warnings, err := strata.FromComponents(comps, drawings, 612, 792).Analyze()
func FromComponents(components []model.TextComponent, drawings []model.Drawing, width, height float64) *Analyzer {
	return &Analyzer{
		components: components,
		drawings:   drawings,
		width:      width,
		height:     height,
		options:    defaultAnalyzeOptions(),
	}
}

// FromPage creates an Analyzer from an already-assembled page input.
// This is the per-page entry point AnalyzeDocument uses internally.
//
// Example:
//
//	page, warnings, err := strata.FromPage(input).Analyze()
func FromPage(input PageInput) *Analyzer {
	return FromComponents(input.Components, input.Drawings, input.Width, input.Height)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := strata.Must(strconv.Atoi(field))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustAnalyze is a helper that wraps a call to a terminal operation and
// panics if the error is non-nil. It discards warnings and returns just
// the value. It is intended for use in scripts or tests where error
// handling would be cumbersome.
//
// Example:
//
//	page := strata.MustAnalyze(strata.FromComponents(comps, nil, w, h).Analyze())
func MustAnalyze[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
