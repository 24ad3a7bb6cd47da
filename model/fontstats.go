package model

import (
	"math"
	"sort"
)

// sizeBucketWidth groups near-identical font sizes; sources frequently
// report 11.98 and 12.02 for the same nominal size.
const sizeBucketWidth = 0.5

// SizeBucket is one entry of the font size histogram
type SizeBucket struct {
	// Size is the bucket's representative font size
	Size float64 `json:"size"`

	// Chars is the number of characters rendered at this size
	Chars int `json:"chars"`
}

// FontStatistics summarizes a document's font usage. It is computed once
// per document before page analysis and shared read-only by every page;
// classifiers compare block font sizes against BodySize.
type FontStatistics struct {
	// BodySize is the dominant body text size: the mode of font sizes
	// weighted by character count, not the mean, so long runs of body
	// text outweigh outsized titles.
	BodySize float64 `json:"body_size"`

	// SizeHistogram lists size buckets sorted by ascending size
	SizeHistogram []SizeBucket `json:"size_histogram,omitempty"`

	// MonospaceRatio is the fraction of characters set in a fixed-pitch
	// font.
	MonospaceRatio float64 `json:"monospace_ratio"`

	// ComponentCount is the number of components the statistics were
	// computed from.
	ComponentCount int `json:"component_count"`
}

// ComputeFontStatistics builds font statistics from components, normally
// the concatenation of every page's components. Components with
// non-positive font sizes are ignored. Returns zero-valued statistics
// for empty input rather than an error.
func ComputeFontStatistics(components []TextComponent) *FontStatistics {
	stats := &FontStatistics{}

	// Step 1: accumulate character counts per size bucket.
	buckets := make(map[float64]int)
	monoChars, totalChars := 0, 0
	for _, comp := range components {
		if comp.FontSize <= 0 {
			continue
		}
		chars := comp.CharCount()
		if chars == 0 {
			continue
		}
		stats.ComponentCount++
		bucket := math.Round(comp.FontSize/sizeBucketWidth) * sizeBucketWidth
		buckets[bucket] += chars
		totalChars += chars
		if IsMonospaceFontName(comp.FontName) {
			monoChars += chars
		}
	}
	if totalChars == 0 {
		return stats
	}

	// Step 2: build the sorted histogram.
	stats.SizeHistogram = make([]SizeBucket, 0, len(buckets))
	for size, chars := range buckets {
		stats.SizeHistogram = append(stats.SizeHistogram, SizeBucket{Size: size, Chars: chars})
	}
	sort.Slice(stats.SizeHistogram, func(i, j int) bool {
		return stats.SizeHistogram[i].Size < stats.SizeHistogram[j].Size
	})

	// Step 3: the mode is the bucket with the most characters. Ties go
	// to the smaller size: body text loses to display text on size but
	// never on volume.
	best := stats.SizeHistogram[0]
	for _, bucket := range stats.SizeHistogram[1:] {
		if bucket.Chars > best.Chars {
			best = bucket
		}
	}
	stats.BodySize = best.Size

	stats.MonospaceRatio = float64(monoChars) / float64(totalChars)
	return stats
}

// SizeRatio returns size divided by the body size, 0 when no body size
// is known. Safe to call on nil.
func (s *FontStatistics) SizeRatio(size float64) float64 {
	if s == nil || s.BodySize <= 0 {
		return 0
	}
	return size / s.BodySize
}
