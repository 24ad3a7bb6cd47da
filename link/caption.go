package link

import (
	"regexp"
	"strings"

	"github.com/tsawler/strata/model"
	"golang.org/x/text/unicode/norm"
)

// Caption detection confidence weights
const (
	captionKeywordWeight = 0.4
	captionNumberWeight  = 0.3
	captionLengthWeight  = 0.2
	captionLineWeight    = 0.1
)

// Link composite score weights
const (
	linkQualityWeight   = 0.4
	linkProximityWeight = 0.3
	linkOverlapWeight   = 0.2
	linkNumberWeight    = 0.1
)

// A keyword found mid-line scores half of one opening the line
const midLineKeywordScore = 0.5

// Longer alternatives come first so "figure" wins over "fig"
var captionKeywordPattern = regexp.MustCompile(
	`(?i)\b(illustration|equation|figure|listing|diagram|exhibit|scheme|chart|graph|photo|plate|table|map|fig|tab|eq)\b`)

// A caption number may be dotted ("2.1") and may follow the keyword's
// own punctuation.
var captionNumberPattern = regexp.MustCompile(`^[.:]?\s*(\d+(?:\.\d+)*)`)

// CaptionConfig holds configuration for caption detection and linking
type CaptionConfig struct {
	// MaxVerticalGap is the largest vertical distance between a
	// caption and its target (default: 50.0)
	MaxVerticalGap float64

	// MinOverlap is the minimum horizontal overlap ratio between a
	// caption and a candidate target (default: 0.1)
	MinOverlap float64

	// MaxWords is the word count at or below which a caption earns
	// the short-length signal (default: 30)
	MaxWords int

	// MinConfidence is the floor below which a keyword match is not
	// reported as a caption (default: 0.3)
	MinConfidence float64
}

// DefaultCaptionConfig returns the tuned caption defaults
func DefaultCaptionConfig() CaptionConfig {
	return CaptionConfig{
		MaxVerticalGap: 50.0,
		MinOverlap:     0.1,
		MaxWords:       30,
		MinConfidence:  0.3,
	}
}

// CaptionLinker detects caption blocks and associates each with the
// block it most plausibly describes.
type CaptionLinker struct {
	config CaptionConfig
}

// NewCaptionLinker creates a caption linker with default configuration
func NewCaptionLinker() *CaptionLinker {
	return &CaptionLinker{config: DefaultCaptionConfig()}
}

// NewCaptionLinkerWithConfig creates a caption linker with custom
// configuration.
func NewCaptionLinkerWithConfig(config CaptionConfig) *CaptionLinker {
	return &CaptionLinker{config: config}
}

// Link finds caption blocks and picks the best target for each. A
// caption block is annotated in place with its kind and link target;
// a caption with no target inside the gap and overlap limits is still
// returned, unlinked. Captions come back in block order.
func (l *CaptionLinker) Link(blocks []*model.Block) []model.Caption {
	var captions []model.Caption

	for i, block := range blocks {
		if block == nil {
			continue
		}
		caption, ok := l.detectCaption(block)
		if !ok {
			continue
		}

		target, linkScore := l.bestTarget(caption, blocks, i)
		caption.Target = target
		caption.LinkConfidence = linkScore

		block.Kind = model.BlockCaption
		block.Confidence = caption.Confidence
		block.Meta.LinkTarget = target

		captions = append(captions, caption)
	}

	return captions
}

// detectCaption scores a block as a caption: keyword placement, a
// trailing number, short text, and a single line each contribute.
func (l *CaptionLinker) detectCaption(block *model.Block) (model.Caption, bool) {
	switch block.Kind {
	case model.BlockTable, model.BlockRule, model.BlockCaption:
		return model.Caption{}, false
	}

	text := norm.NFKC.String(strings.TrimSpace(block.Text()))
	if text == "" {
		return model.Caption{}, false
	}

	loc := captionKeywordPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return model.Caption{}, false
	}

	keywordScore := midLineKeywordScore
	if loc[0] == 0 {
		keywordScore = 1.0
	}
	keyword := text[loc[2]:loc[3]]

	number := ""
	if m := captionNumberPattern.FindStringSubmatch(text[loc[1]:]); m != nil {
		number = m[1]
	}

	numberScore := 0.0
	if number != "" {
		numberScore = 1.0
	}
	lengthScore := 0.0
	if words := len(strings.Fields(text)); words > 0 && words <= l.config.MaxWords {
		lengthScore = 1.0
	}
	lineScore := 0.0
	if block.LineCount() == 1 {
		lineScore = 1.0
	}

	confidence := captionKeywordWeight*keywordScore +
		captionNumberWeight*numberScore +
		captionLengthWeight*lengthScore +
		captionLineWeight*lineScore
	if confidence < l.config.MinConfidence {
		return model.Caption{}, false
	}

	return model.Caption{
		Text:       text,
		BBox:       block.BBox,
		Keyword:    keyword,
		Number:     number,
		Confidence: confidence,
		Target:     -1,
	}, true
}

// bestTarget returns the block index maximizing the composite link
// score, or -1 when no candidate satisfies the gap and overlap limits.
// Ties keep the earliest block.
func (l *CaptionLinker) bestTarget(caption model.Caption, blocks []*model.Block, self int) (int, float64) {
	numberScore := 0.0
	if caption.Number != "" {
		numberScore = 1.0
	}

	best := -1
	bestScore := 0.0
	for i, block := range blocks {
		if i == self || block == nil {
			continue
		}
		if block.Kind == model.BlockCaption || block.Kind == model.BlockRule {
			continue
		}

		gap := caption.BBox.VerticalGap(block.BBox)
		if gap > l.config.MaxVerticalGap {
			continue
		}
		overlap := caption.BBox.HorizontalOverlapRatio(block.BBox)
		if overlap < l.config.MinOverlap {
			continue
		}

		proximity := 1.0
		if l.config.MaxVerticalGap > 0 {
			proximity = 1 - gap/l.config.MaxVerticalGap
		}
		score := linkQualityWeight*caption.Confidence +
			linkProximityWeight*proximity +
			linkOverlapWeight*overlap +
			linkNumberWeight*numberScore
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}
