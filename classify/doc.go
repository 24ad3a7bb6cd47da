// Package classify assigns semantic kinds to clustered layout blocks.
//
// Clustering recovers where the text sits; this package decides what the
// text is: heading, paragraph, list, code, quote, or rule. Every decision
// is a confidence score in [0, 1] assembled from weighted signals, and a
// block whose best score stays below the relevant classifier's floor
// falls back to plain text rather than failing.
//
// # Classification
//
// The [Classifier] runs the full cascade over a page's blocks:
//
//	classifier := classify.NewClassifier()
//	result := classifier.Classify(blocks, fonts, pageWidth, pageHeight)
//
// Blocks are annotated in place with their kind, confidence, and
// kind-specific metadata (heading level, list nesting, language hint,
// quote depth). The [Result] summarizes the page and carries the
// document outline assembled from classified headings.
//
// # Signals and scoring
//
// Classification is split into two deliberately separate layers:
//
//   - [ExtractSignals] measures a block once: size ratio against the
//     document body size, bold coverage, marker prefixes, keyword hits,
//     character-width spread, color variety, indentation. Signals are
//     raw measurements and carry no thresholds.
//   - scoring functions in scoring.go turn a [Signals] value into one
//     confidence per classifier. Every weight lives there and nowhere
//     else, so each score can be tested in isolation.
//
// Marker runes, keyword vocabularies, and quote glyphs are fixed
// package-level tables in static.go. Tuned thresholds (ratio maps,
// indent steps, confidence floors) are configuration with defaults from
// [DefaultConfig].
//
// # Drawing rules
//
// Horizontal separator lines drawn as vector strokes rather than typed
// punctuation are recovered by [Classifier.DrawingRules], which emits
// synthetic rule blocks ready to merge into the page's block list.
package classify
