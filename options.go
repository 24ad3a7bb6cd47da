package strata

import (
	"github.com/tsawler/strata/classify"
	"github.com/tsawler/strata/layout"
	"github.com/tsawler/strata/link"
	"github.com/tsawler/strata/tables"
)

// Config bundles the per-stage configurations for a full analysis run.
// The zero value is not usable; start from DefaultConfig and override
// the fields you need.
type Config struct {
	// Layout configures clustering, segmentation, and reading order
	Layout layout.AnalyzerConfig

	// Classify configures the semantic block classifiers
	Classify classify.Config

	// Tables configures the table detectors
	Tables tables.Config

	// Captions configures caption detection and linking
	Captions link.CaptionConfig

	// Footnotes configures footnote marker and content matching
	Footnotes link.FootnoteConfig

	// Furniture configures repeated header and footer detection in
	// document analysis
	Furniture layout.FurnitureConfig

	// TableDetector names the detection strategy ("lattice", "stream",
	// or "hybrid")
	TableDetector string
}

// DefaultConfig returns the default configuration for every stage
func DefaultConfig() Config {
	return Config{
		Layout:        layout.DefaultAnalyzerConfig(),
		Classify:      classify.DefaultConfig(),
		Tables:        tables.DefaultConfig(),
		Captions:      link.DefaultCaptionConfig(),
		Footnotes:     link.DefaultFootnoteConfig(),
		Furniture:     layout.DefaultFurnitureConfig(),
		TableDetector: "hybrid",
	}
}

// analyzeOptions holds configuration for a page analysis run.
type analyzeOptions struct {
	// Per-stage configuration
	config Config

	// Stage toggles
	classifyBlocks bool
	detectTables   bool
	linkCaptions   bool
	linkFootnotes  bool

	// Page number stamped into tables, captions, and footnotes
	pageNumber int
}

// defaultAnalyzeOptions returns the default analysis options.
func defaultAnalyzeOptions() analyzeOptions {
	return analyzeOptions{
		config:         DefaultConfig(),
		classifyBlocks: true,
		detectTables:   true,
		linkCaptions:   true,
		linkFootnotes:  true,
		pageNumber:     1,
	}
}

// clone creates a copy of analyzeOptions.
func (o analyzeOptions) clone() analyzeOptions {
	// All fields are value types; a plain copy is a deep copy.
	return o
}
