// Package layout provides page layout analysis for recovering document
// structure from positioned text components.
//
// This package implements the spatial half of the engine: it groups raw
// positioned components into lines and blocks, cross-checks the grouping
// against independent region detectors, and resolves a multi-column-aware
// reading order over the result.
//
// # Layout Analysis
//
// The [Analyzer] orchestrates all detection components:
//
//	analyzer := layout.NewAnalyzer()
//	result := analyzer.Analyze(components, pageWidth, pageHeight)
//
// The [AnalysisResult] contains:
//
//   - Blocks - clustered text blocks with their lines
//   - Spectrum - the document's nearest-neighbor spacing and skew statistics
//   - Regions - recursive projection-profile segmentation of the page
//   - Whitespace - column, paragraph, and section boundaries
//   - Graph - the spatial relationship graph over blocks
//   - ReadingOrder - the resolved block reading sequence
//   - Tree - the Page/Block/Line/Word containment tree
//
// # Detectors
//
// The package includes specialized detectors, each usable on its own:
//
//   - [ClusterDetector] - nearest-neighbor clustering of components into
//     lines and blocks
//   - [RLSADetector] - run-length smoothing over a rasterized occupancy
//     grid, used as a cross-check when glyph geometry is sparse
//   - [XYCutSegmenter] - recursive projection-profile page partitioning
//   - [WhitespaceAnalyzer] - column, paragraph, and section boundaries
//     from gap statistics
//   - [GraphBuilder] - confidence-weighted spatial relationship edges
//   - [ReadingOrderResolver] - multi-column-aware block ordering
//   - [TreeBuilder] - containment tree assembly
//   - [FurnitureDetector] - repeated header/footer detection across pages
//
// # Configuration
//
// Each detector can be configured independently:
//
//	config := layout.DefaultAnalyzerConfig()
//	config.Cluster.LineMergeFactor = 2.5
//	config.ReadingOrder.ColumnGapThreshold = 40
//	analyzer := layout.NewAnalyzerWithConfig(config)
//
// All thresholds are empirically tuned and preserved as configuration
// rather than derived at runtime.
package layout
