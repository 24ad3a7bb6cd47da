package classify

import (
	"github.com/tsawler/strata/model"
)

// Config aggregates the per-detector configurations
type Config struct {
	Heading   HeadingConfig
	List      ListConfig
	Code      CodeConfig
	Rule      RuleConfig
	Quote     QuoteConfig
	Paragraph ParagraphConfig
}

// DefaultConfig returns the tuned defaults for every detector
func DefaultConfig() Config {
	return Config{
		Heading:   DefaultHeadingConfig(),
		List:      DefaultListConfig(),
		Code:      DefaultCodeConfig(),
		Rule:      DefaultRuleConfig(),
		Quote:     DefaultQuoteConfig(),
		Paragraph: DefaultParagraphConfig(),
	}
}

// ParagraphConfig holds configuration for paragraph promotion
type ParagraphConfig struct {
	// MinWords is the minimum word count for a block to be promoted
	// from plain text to paragraph (default: 2)
	MinWords int

	// MinConfidence is the floor below which a block stays plain text
	// (default: 0.5)
	MinConfidence float64
}

// DefaultParagraphConfig returns the tuned paragraph defaults
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		MinWords:      2,
		MinConfidence: 0.5,
	}
}

// Classifier assigns semantic kinds to layout blocks
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultConfig())
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Result holds the classified blocks plus the page context the
// classifier derived while working.
type Result struct {
	// Blocks are the input blocks, annotated in place
	Blocks []*model.Block

	// Outline is the heading hierarchy built from the classified blocks
	Outline []OutlineEntry

	// BodyLeftMargin is the dominant left edge used for indent signals
	BodyLeftMargin float64

	// PageWidth and PageHeight are the dimensions the classifier ran with
	PageWidth  float64
	PageHeight float64

	// Config is the configuration the classifier ran with
	Config Config
}

// Count returns the number of blocks of the given kind
func (r *Result) Count(kind model.BlockKind) int {
	if r == nil {
		return 0
	}
	count := 0
	for _, b := range r.Blocks {
		if b != nil && b.Kind == kind {
			count++
		}
	}
	return count
}

// BlocksOfKind returns the blocks of the given kind in input order
func (r *Result) BlocksOfKind(kind model.BlockKind) []*model.Block {
	if r == nil {
		return nil
	}
	var out []*model.Block
	for _, b := range r.Blocks {
		if b != nil && b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Headings returns the heading blocks in input order
func (r *Result) Headings() []*model.Block {
	return r.BlocksOfKind(model.BlockHeading)
}

// Classify assigns a semantic kind and confidence to each block and
// annotates blocks in place. Blocks already carrying a kind other than
// BlockText are left untouched, so callers may pre-tag table or
// furniture blocks. When fonts is nil, statistics are computed from
// the blocks themselves.
func (c *Classifier) Classify(blocks []*model.Block, fonts *model.FontStatistics, pageWidth, pageHeight float64) *Result {
	result := &Result{
		Blocks:     blocks,
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Config:     c.config,
	}
	if len(blocks) == 0 {
		return result
	}

	// Step 1: establish page context
	if fonts == nil {
		var components []model.TextComponent
		for _, block := range blocks {
			if block != nil {
				components = append(components, block.Components()...)
			}
		}
		fonts = model.ComputeFontStatistics(components)
	}
	ctx := PageContext{
		Fonts:          fonts,
		PageWidth:      pageWidth,
		PageHeight:     pageHeight,
		BodyLeftMargin: ComputeBodyMargin(blocks),
	}
	result.BodyLeftMargin = ctx.BodyLeftMargin

	// Step 2: classify each unclaimed block
	for _, block := range blocks {
		if block == nil || block.Kind != model.BlockText {
			continue
		}
		sig := ExtractSignals(block, ctx)
		c.classifyBlock(block, sig)
	}

	// Step 3: build the heading outline
	result.Outline = BuildOutline(blocks)

	return result
}

// classifyBlock runs the detector cascade; the first detector to
// claim a block wins. Order matters: rules are the most structural,
// headings outrank list markers ("1. Intro" in display size is a
// heading), lists outrank code (bulleted lines often carry keyword
// tokens), and quotes are checked after code so an indented snippet
// is not claimed by its indent alone.
func (c *Classifier) classifyBlock(block *model.Block, sig Signals) {
	if confidence, ok := classifyRule(sig, c.config.Rule); ok {
		block.Kind = model.BlockRule
		block.Confidence = confidence
		return
	}

	if level, confidence, ok := classifyHeading(sig, c.config.Heading); ok {
		block.Kind = model.BlockHeading
		block.Confidence = confidence
		block.Meta.HeadingLevel = level
		return
	}

	if list, ok := classifyList(sig, c.config.List); ok {
		block.Kind = model.BlockList
		block.Confidence = list.confidence
		block.Meta.ListNesting = list.nesting
		block.Meta.ListOrdered = list.ordered
		block.Meta.Checkbox = list.checkbox
		return
	}

	if language, confidence, ok := classifyCode(sig, c.config.Code); ok {
		block.Kind = model.BlockCode
		block.Confidence = confidence
		block.Meta.LanguageHint = language
		return
	}

	if nesting, confidence, ok := classifyQuote(sig, c.config.Quote); ok {
		block.Kind = model.BlockQuote
		block.Confidence = confidence
		block.Meta.QuoteNesting = nesting
		return
	}

	if confidence := scoreParagraph(sig); sig.WordCount >= c.config.Paragraph.MinWords && confidence >= c.config.Paragraph.MinConfidence {
		block.Kind = model.BlockParagraph
		block.Confidence = confidence
		return
	}

	block.Confidence = fallbackTextConfidence
}
