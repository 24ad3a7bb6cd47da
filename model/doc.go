// Package model provides the data types shared by all layout analysis
// stages.
//
// This package defines the structures that flow through the engine: raw
// positioned input, intermediate layout artifacts, and the final typed
// block output. Every analysis stage consumes and produces these types,
// making them the primary API for supplying input and consuming results.
//
// # Input Types
//
// Input arrives from an extraction collaborator as positioned geometry:
//
//   - [TextComponent] - an atomic positioned text run with font information
//   - [Drawing] - a vector primitive (line or rectangle) for ruling and
//     rule detection
//
// All coordinates use a top-left origin with Y increasing downward. Adapters
// for sources that use a bottom-left origin must flip coordinates before
// constructing components.
//
// # Output Types
//
// Analysis produces typed, ordered, confidence-scored structure:
//
//   - [Block] - a classified region with a closed [BlockKind] tag
//   - [Table] - recovered tables with cells and row/column spanning
//   - [Caption], [Footnote] - linked annotations
//   - [Page], [Document] - per-page and whole-document containers
//
// A [Document] round-trips losslessly through Encode and DecodeDocument for
// all structural fields.
//
// # Layout Artifacts
//
// Intermediate structure built once per page and read-only afterward:
//
//   - [LayoutTree] - an index-based arena holding the Page→Block→Line→Word
//     containment tree
//   - [SpatialGraph] - directed spatial relations between blocks with
//     per-edge confidence
//   - [FontStatistics] - document-wide font size and monospace statistics
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and overlap
//     calculations, stored as corner coordinates
//   - [Point] - 2D point with distance calculation
//   - [Matrix] - 2D affine transformation matrix
package model
