package strata_test

import (
	"fmt"
	"log"

	"github.com/tsawler/strata"
	"github.com/tsawler/strata/model"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require real
// page content.

var (
	comps    []model.TextComponent
	drawings []model.Drawing
	pages    []strata.PageInput
)

func Example_analyzePage() {
	page, warnings, err := strata.FromComponents(comps, drawings, 612, 792).Analyze()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(page.Text())

	for _, block := range page.BlocksInReadingOrder() {
		fmt.Printf("%s (%.2f): %s\n", block.Kind, block.Confidence, block.Text())
	}
	_ = warnings
}

func Example_analyzeWithOptions() {
	cfg := strata.DefaultConfig()
	cfg.Tables.MinRows = 3

	page, warnings, err := strata.FromComponents(comps, drawings, 612, 792).
		WithConfig(cfg).
		TableDetector("lattice"). // Ruled grids only
		SkipFootnotes().          // Leave footer text alone
		Analyze()
	_ = page
	_ = warnings
	_ = err
}

func Example_tables() {
	detected, _, err := strata.FromComponents(comps, drawings, 612, 792).Tables()
	if err != nil {
		log.Fatal(err)
	}

	for _, table := range detected {
		fmt.Printf("%dx%d table (%s, %.2f)\n",
			table.Rows, table.Cols, table.Method, table.Confidence)
		fmt.Println(table.ToMarkdown())
	}
}

func Example_analyzeDocument() {
	doc, warnings, err := strata.AnalyzeDocument(pages)
	if err != nil {
		log.Fatal(err)
	}

	for _, page := range doc.Pages {
		fmt.Printf("Page %d: %d blocks, %d tables\n",
			page.Number, len(page.Blocks), len(page.Tables))
	}

	// Heading outline across the whole document
	for _, entry := range doc.Outline() {
		fmt.Printf("%*s%s\n", entry.Level*2, "", entry.Text)
	}
	_ = warnings
}

func Example_warnings() {
	page, warnings, err := strata.FromComponents(comps, nil, 612, 792).Analyze()
	if err != nil {
		log.Fatal(err) // Fatal error
	}
	_ = page

	for _, w := range warnings {
		log.Println("Warning:", w.Message) // Non-fatal issues
	}

	// Format all warnings
	formatted := strata.FormatWarnings(warnings)
	_ = formatted
}

func Example_errorHandling() {
	// Panic on error (for scripts/tests)
	page := strata.MustAnalyze(strata.FromComponents(comps, nil, 612, 792).Analyze())
	text := strata.MustAnalyze(strata.FromComponents(comps, nil, 612, 792).Text())
	_ = page
	_ = text
}

func Example_inspection() {
	ext := strata.FromComponents(comps, nil, 612, 792)

	// Cheap checks that avoid a full analysis
	multiCol, _ := ext.IsMultiColumn()
	count, _ := ext.ComponentCount()
	_ = multiCol
	_ = count
}
