package classify

import (
	"strings"

	"github.com/tsawler/strata/model"
)

// HeadingConfig holds configuration for heading classification
type HeadingConfig struct {
	// LevelRatios are the minimum size ratios for levels H1 through
	// H5, descending; a block's ratio must exceed an entry to claim
	// that level. Level 6 is structural: bold text at or below the
	// body size, outside the top band.
	// (default: 2.0, 1.6, 1.35, 1.15, 1.0)
	LevelRatios [5]float64

	// TopBandRatio is the fraction of page height treated as the top
	// band for the position signal (default: 0.2)
	TopBandRatio float64

	// MaxWords is the maximum word count for a heading (default: 20)
	MaxWords int

	// MinConfidence is the floor below which a candidate stays plain
	// text (default: 0.3)
	MinConfidence float64
}

// DefaultHeadingConfig returns the tuned heading defaults
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		LevelRatios:   [5]float64{2.0, 1.6, 1.35, 1.15, 1.0},
		TopBandRatio:  0.2,
		MaxWords:      20,
		MinConfidence: 0.3,
	}
}

// classifyHeading reports the heading level and confidence for a
// block, or ok=false when the block is not a heading. Multi-line
// blocks never qualify.
func classifyHeading(sig Signals, cfg HeadingConfig) (level int, confidence float64, ok bool) {
	if sig.LineCount != 1 || sig.WordCount == 0 || sig.WordCount > cfg.MaxWords {
		return 0, 0, false
	}
	level = headingLevel(sig, cfg)
	if level == 0 {
		return 0, 0, false
	}
	confidence = scoreHeading(sig, cfg)
	if confidence < cfg.MinConfidence {
		return 0, 0, false
	}
	return level, confidence, true
}

// OutlineEntry is one node of the document outline assembled from
// classified headings.
type OutlineEntry struct {
	// Block is the heading's index in the classified block slice
	Block int

	// Level is the heading level, 1 through 6
	Level int

	// Text is the heading text
	Text string

	// Children are the entries nested under this heading
	Children []OutlineEntry
}

// BuildOutline assembles a nested outline from the heading blocks in
// the given slice, in slice order. Non-heading blocks are skipped; a
// heading nests under the nearest preceding heading of a shallower
// level.
func BuildOutline(blocks []*model.Block) []OutlineEntry {
	var outline []OutlineEntry
	var stack []*OutlineEntry

	for i, block := range blocks {
		if block == nil || block.Kind != model.BlockHeading {
			continue
		}
		entry := OutlineEntry{
			Block: i,
			Level: block.Meta.HeadingLevel,
			Text:  strings.TrimSpace(block.Text()),
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= entry.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			outline = append(outline, entry)
			stack = append(stack, &outline[len(outline)-1])
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
			stack = append(stack, &parent.Children[len(parent.Children)-1])
		}
	}

	return outline
}
