package layout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/strata/model"
)

// FurnitureKind indicates whether a furniture region is a header or footer
type FurnitureKind int

const (
	FurnitureHeader FurnitureKind = iota
	FurnitureFooter
)

func (k FurnitureKind) String() string {
	if k == FurnitureHeader {
		return "header"
	}
	return "footer"
}

// FurnitureRegion represents a repeated header or footer detected across
// a document's pages.
type FurnitureRegion struct {
	// Kind indicates if this is a header or footer
	Kind FurnitureKind

	// BBox is the region's bounding box in band-relative coordinates:
	// Y measures from the top of the page for headers and from the
	// bottom for footers.
	BBox model.BBox

	// Text is the representative text content
	Text string

	// IsPageNumber indicates the region carries page numbers
	IsPageNumber bool

	// Confidence is the detection confidence (0.0 to 1.0)
	Confidence float64

	// Pages lists the page indices carrying this region
	Pages []int
}

// FurnitureConfig holds configuration for header/footer detection
type FurnitureConfig struct {
	// HeaderBandHeight is the band from the top of the page searched for
	// headers (default: 72, one inch)
	HeaderBandHeight float64

	// FooterBandHeight is the band from the bottom of the page searched
	// for footers (default: 72, one inch)
	FooterBandHeight float64

	// MinOccurrenceRatio is the minimum fraction of pages a text must
	// appear on to count as furniture (default: 0.5)
	MinOccurrenceRatio float64

	// PositionTolerance is the maximum band-relative Y difference for
	// repeated text to count as the same region (default: 5)
	PositionTolerance float64

	// XPositionTolerance is the maximum X difference for repeated text
	// to count as the same region (default: 10)
	XPositionTolerance float64

	// MinPages is the minimum page count for detection (default: 2)
	MinPages int
}

// DefaultFurnitureConfig returns sensible default configuration
func DefaultFurnitureConfig() FurnitureConfig {
	return FurnitureConfig{
		HeaderBandHeight:   72.0,
		FooterBandHeight:   72.0,
		MinOccurrenceRatio: 0.5,
		PositionTolerance:  5.0,
		XPositionTolerance: 10.0,
		MinPages:           2,
	}
}

// PageBlocks carries one page's clustered blocks into cross-page analysis
type PageBlocks struct {
	PageIndex  int
	PageWidth  float64
	PageHeight float64
	Blocks     []*model.Block
}

// FurnitureDetector finds repeated headers and footers across a
// document's pages so they can be excluded from the content flow.
type FurnitureDetector struct {
	config FurnitureConfig
}

// NewFurnitureDetector creates a new detector with default configuration
func NewFurnitureDetector() *FurnitureDetector {
	return &FurnitureDetector{
		config: DefaultFurnitureConfig(),
	}
}

// NewFurnitureDetectorWithConfig creates a detector with custom configuration
func NewFurnitureDetectorWithConfig(config FurnitureConfig) *FurnitureDetector {
	return &FurnitureDetector{
		config: config,
	}
}

// FurnitureLayout contains the detected furniture regions
type FurnitureLayout struct {
	// Headers contains detected header regions
	Headers []FurnitureRegion

	// Footers contains detected footer regions
	Footers []FurnitureRegion

	// Config used for detection
	Config FurnitureConfig
}

// furnitureCandidate is one block observed inside a header or footer band.
// BandY is the distance from the page edge owning the band, so positions
// compare across pages of different heights.
type furnitureCandidate struct {
	text      string
	x         float64
	bandY     float64
	width     float64
	height    float64
	pageIndex int
}

// Detect analyzes blocks from multiple pages to find repeated headers and
// footers. Single-page input yields no furniture: repetition is the
// evidence.
func (d *FurnitureDetector) Detect(pages []PageBlocks) *FurnitureLayout {
	minPages := d.config.MinPages
	if minPages < 2 {
		minPages = 2
	}
	if len(pages) < minPages {
		return &FurnitureLayout{Config: d.config}
	}

	// Step 1: Collect candidates inside each page's bands
	headerCandidates := d.collectCandidates(pages, FurnitureHeader)
	footerCandidates := d.collectCandidates(pages, FurnitureFooter)

	// Step 2: Keep text groups that repeat at a consistent position
	return &FurnitureLayout{
		Headers: d.repeatingRegions(headerCandidates, len(pages), FurnitureHeader),
		Footers: d.repeatingRegions(footerCandidates, len(pages), FurnitureFooter),
		Config:  d.config,
	}
}

// collectCandidates gathers blocks lying inside the header or footer band
func (d *FurnitureDetector) collectCandidates(pages []PageBlocks, kind FurnitureKind) []furnitureCandidate {
	var candidates []furnitureCandidate
	for _, page := range pages {
		for _, block := range page.Blocks {
			var bandY float64
			if kind == FurnitureHeader {
				bandY = block.BBox.Y0
				if bandY >= d.config.HeaderBandHeight {
					continue
				}
			} else {
				bandY = page.PageHeight - block.BBox.Y1
				if bandY >= d.config.FooterBandHeight {
					continue
				}
			}
			candidates = append(candidates, furnitureCandidate{
				text:      strings.TrimSpace(block.Text()),
				x:         block.BBox.X0,
				bandY:     bandY,
				width:     block.BBox.Width(),
				height:    block.BBox.Height(),
				pageIndex: page.PageIndex,
			})
		}
	}
	return candidates
}

// repeatingRegions groups candidates by normalized text and keeps groups
// appearing on enough pages at a consistent position.
func (d *FurnitureDetector) repeatingRegions(candidates []furnitureCandidate, totalPages int, kind FurnitureKind) []FurnitureRegion {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[string][]furnitureCandidate)
	for _, c := range candidates {
		groups[normalizeNumbers(c.text)] = append(groups[normalizeNumbers(c.text)], c)
	}

	minOccurrences := int(float64(totalPages) * d.config.MinOccurrenceRatio)
	if minOccurrences < 2 {
		minOccurrences = 2
	}

	var regions []FurnitureRegion
	for normalized, group := range groups {
		// Very short non-numeric text is likely a fragment of something larger
		if len(normalized) <= 2 && !isPageNumberPattern(normalized) {
			continue
		}

		pageSet := make(map[int]bool)
		for _, c := range group {
			pageSet[c.pageIndex] = true
		}
		if len(pageSet) < minOccurrences {
			continue
		}
		if !d.consistentPosition(group) {
			continue
		}

		isPageNum := isPageNumberPattern(normalized) || sequentialNumbers(group)
		text := group[0].text
		if isPageNum {
			text = "[Page Number]"
		}

		pages := make([]int, 0, len(pageSet))
		for idx := range pageSet {
			pages = append(pages, idx)
		}
		sort.Ints(pages)

		regions = append(regions, FurnitureRegion{
			Kind:         kind,
			BBox:         candidateGroupBBox(group),
			Text:         text,
			IsPageNumber: isPageNum,
			Confidence:   d.regionConfidence(group, totalPages),
			Pages:        pages,
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Confidence > regions[j].Confidence
	})
	return regions
}

// consistentPosition checks that the group's occurrences sit at the same
// band position across pages.
func (d *FurnitureDetector) consistentPosition(group []furnitureCandidate) bool {
	if len(group) < 2 {
		return false
	}
	refY, refX := group[0].bandY, group[0].x
	for _, c := range group[1:] {
		if absFloat(c.bandY-refY) > d.config.PositionTolerance {
			return false
		}
		if absFloat(c.x-refX) > d.config.XPositionTolerance {
			return false
		}
	}
	return true
}

// regionConfidence scores a furniture group from its occurrence ratio
// plus a bonus for position consistency.
func (d *FurnitureDetector) regionConfidence(group []furnitureCandidate, totalPages int) float64 {
	if totalPages == 0 {
		return 0
	}
	pageSet := make(map[int]bool)
	for _, c := range group {
		pageSet[c.pageIndex] = true
	}
	confidence := float64(len(pageSet)) / float64(totalPages) * 0.9
	if d.consistentPosition(group) {
		confidence += 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// candidateGroupBBox returns the band-relative bounding box of a group
func candidateGroupBBox(group []furnitureCandidate) model.BBox {
	if len(group) == 0 {
		return model.BBox{}
	}
	box := model.NewBBox(group[0].x, group[0].bandY, group[0].x+group[0].width, group[0].bandY+group[0].height)
	for _, c := range group[1:] {
		box = box.Union(model.NewBBox(c.x, c.bandY, c.x+c.width, c.bandY+c.height))
	}
	return box
}

// digitRun matches sequences of digits for page-number normalization
var digitRun = regexp.MustCompile(`\d+`)

// normalizeNumbers replaces digit runs with a placeholder so "Page 3" and
// "Page 14" compare equal.
func normalizeNumbers(text string) string {
	return digitRun.ReplaceAllString(text, "#")
}

// pageNumberPatterns are common page-number forms after normalization
var pageNumberPatterns = []string{
	"#",
	"page #",
	"- # -",
	"# of #",
	"page # of #",
	"#/#",
	"p. #",
	"p.#",
	"pg #",
	"pg. #",
}

// isPageNumberPattern checks if normalized text looks like a page number
func isPageNumberPattern(normalized string) bool {
	trimmed := strings.TrimSpace(normalized)
	for _, pattern := range pageNumberPatterns {
		if strings.EqualFold(trimmed, pattern) {
			return true
		}
	}
	return false
}

// sequentialNumbers checks whether the numbers embedded in a group's text
// form a mostly sequential run, the signature of page numbering.
func sequentialNumbers(group []furnitureCandidate) bool {
	if len(group) < 2 {
		return false
	}

	var numbers []int
	for _, c := range group {
		for _, match := range digitRun.FindAllString(c.text, -1) {
			num := 0
			for _, r := range match {
				num = num*10 + int(r-'0')
			}
			numbers = append(numbers, num)
		}
	}
	if len(numbers) < 2 {
		return false
	}

	sort.Ints(numbers)
	sequential := 0
	for i := 1; i < len(numbers); i++ {
		if numbers[i]-numbers[i-1] == 1 {
			sequential++
		}
	}
	return sequential >= len(numbers)/2
}

// FurnitureLayout methods

// HasHeaders returns true if any headers were detected
func (l *FurnitureLayout) HasHeaders() bool {
	return l != nil && len(l.Headers) > 0
}

// HasFooters returns true if any footers were detected
func (l *FurnitureLayout) HasFooters() bool {
	return l != nil && len(l.Footers) > 0
}

// IsFurniture reports whether a block on the given page matches a
// detected header or footer region.
func (l *FurnitureLayout) IsFurniture(pageIndex int, block *model.Block, pageHeight float64) bool {
	if l == nil || block == nil {
		return false
	}
	text := strings.TrimSpace(block.Text())

	for _, header := range l.Headers {
		if !containsPage(header.Pages, pageIndex) {
			continue
		}
		if block.BBox.Y0 < l.Config.HeaderBandHeight && furnitureTextMatches(text, header) {
			return true
		}
	}
	for _, footer := range l.Footers {
		if !containsPage(footer.Pages, pageIndex) {
			continue
		}
		if pageHeight-block.BBox.Y1 < l.Config.FooterBandHeight && furnitureTextMatches(text, footer) {
			return true
		}
	}
	return false
}

// ExcludeBlocks returns the page's blocks with furniture removed
func (l *FurnitureLayout) ExcludeBlocks(pageIndex int, blocks []*model.Block, pageHeight float64) []*model.Block {
	if l == nil || (len(l.Headers) == 0 && len(l.Footers) == 0) {
		return blocks
	}
	var kept []*model.Block
	for _, block := range blocks {
		if l.IsFurniture(pageIndex, block, pageHeight) {
			continue
		}
		kept = append(kept, block)
	}
	return kept
}

// furnitureTextMatches checks block text against a region, treating any
// page-number form as a match for page-number regions.
func furnitureTextMatches(text string, region FurnitureRegion) bool {
	if region.IsPageNumber {
		return isPageNumberPattern(normalizeNumbers(text))
	}
	if text == region.Text {
		return true
	}
	return normalizeNumbers(text) == normalizeNumbers(region.Text)
}

// containsPage checks if a page index is in the list
func containsPage(pages []int, pageIndex int) bool {
	for _, p := range pages {
		if p == pageIndex {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the detected furniture
func (l *FurnitureLayout) Summary() string {
	if l == nil || (!l.HasHeaders() && !l.HasFooters()) {
		return "No headers or footers detected"
	}

	var parts []string
	if len(l.Headers) > 0 {
		texts := make([]string, len(l.Headers))
		for i, h := range l.Headers {
			texts[i] = h.Text
		}
		parts = append(parts, "Headers: "+strings.Join(texts, ", "))
	}
	if len(l.Footers) > 0 {
		texts := make([]string, len(l.Footers))
		for i, f := range l.Footers {
			texts[i] = f.Text
		}
		parts = append(parts, "Footers: "+strings.Join(texts, ", "))
	}
	return strings.Join(parts, "; ")
}
