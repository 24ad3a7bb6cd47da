// Package tables recovers tabular structure from a page's blocks and
// vector drawing primitives.
//
// # Detectors
//
// Table detection is performed by types implementing the [Detector]
// interface. The package provides:
//
//   - [LatticeDetector] - rebuilds the cell grid from drawn ruling lines
//   - [StreamDetector] - rebuilds the grid from text alignment alone
//   - [HybridDetector] - lattice first, stream wherever no ruled table was found
//
// Detectors are registered globally and can be retrieved by name:
//
//	detector := tables.GetDetector("hybrid")
//	found, err := detector.Detect(tables.Input{
//		Blocks:   blocks,
//		Drawings: drawings,
//		Width:    pageWidth,
//		Height:   pageHeight,
//	})
//
// # Lattice Detection
//
// The [LatticeDetector] uses a multi-step algorithm:
//
//  1. Rasterize the page's rule-like drawings into a coverage mask
//  2. Extract horizontal and vertical line runs above a minimum length
//  3. Group connected runs into candidate regions
//  4. Rebuild each region's cell grid from the line intersections
//  5. Fill cells from the page's text
//
// Lattice tables carry a fixed high confidence because the grid is
// drawn explicitly.
//
// # Stream Detection
//
// The [StreamDetector] clusters block edges into row and column
// positions; a block that aligns with no position is dropped. It
// requires no ruling lines and carries a fixed lower confidence.
//
// # Content Extraction
//
// All detectors populate cells the same way: text components are
// assigned to the cell holding their center when the overlap ratio
// clears a threshold, header rows are derived from bold or large type
// in the leading rows (falling back to the first row), and empty cells
// are folded into an adjacent span.
//
// # Configuration
//
// Detector behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.MinRows = 3
//	config.MinLineLength = 20
//	detector.Configure(config)
package tables
