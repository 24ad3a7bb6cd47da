// Package link associates blocks with the text that references them:
// captions with the tables and figures they describe, and superscript
// footnote markers with their footer content.
//
// # Captions
//
// The [CaptionLinker] scores blocks on a caption keyword ("Table",
// "Figure", ...), a trailing number, short text, and a single line.
// Each detected caption is paired with at most one nearby block, picked
// by a composite of caption quality, proximity, horizontal overlap, and
// the presence of a number:
//
//	linker := link.NewCaptionLinker()
//	captions := linker.Link(page.Blocks)
//
// A caption with no block inside the gap and overlap limits is still
// reported, unlinked.
//
// # Footnotes
//
// The [FootnoteLinker] finds superscript-sized components in body text
// whose normalized form is a plausible marker (numeric, symbol, letter,
// or roman), then scans the page's footer region for lines opening with
// the same marker. Matching is exact after NFKC normalization, so a
// typographic superscript in the body matches a plain digit in the
// footer. Markers without footer content keep a reduced confidence
// rather than being dropped.
package link
