package strata

import (
	"fmt"
	"strings"
)

// Warning codes identify the class of non-fatal issue an analysis run
// encountered. Match on Code rather than Message; messages are for
// humans and may change.
const (
	// WarnSanitizedGeometry reports a component whose bounding box had
	// swapped corners and was repaired before analysis.
	WarnSanitizedGeometry = "sanitized-geometry"

	// WarnDroppedComponent reports a component discarded because its
	// geometry contained non-finite coordinates.
	WarnDroppedComponent = "dropped-component"

	// WarnDroppedDrawing reports a drawing primitive discarded because
	// its geometry contained non-finite coordinates.
	WarnDroppedDrawing = "dropped-drawing"

	// WarnClusterFallback reports that nearest-neighbor clustering
	// produced no usable structure and the run-length smoothing
	// cross-check rebuilt the blocks instead.
	WarnClusterFallback = "cluster-fallback"

	// WarnTableDetection reports that a table detection pass failed and
	// the page was assembled without its tables.
	WarnTableDetection = "table-detection"
)

// Warning describes a non-fatal issue encountered during analysis.
// Warnings indicate the analysis succeeded but parts of the input were
// repaired, skipped, or handled by a fallback path.
type Warning struct {
	// Code is the machine-readable warning class
	Code string

	// Message is the human-readable description
	Message string

	// Page is the 1-indexed page the warning applies to, 0 when the
	// warning is not tied to a single page
	Page int
}

// String formats the warning as "code: message" with the page appended
// when one is set.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("%s: %s (page %d)", w.Code, w.Message, w.Page)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// FormatWarnings renders warnings one per line for logging.
// Returns the empty string when there are no warnings.
//
// Example:
//
//	page, warnings, err := strata.FromComponents(comps, nil, w, h).Analyze()
//	if len(warnings) > 0 {
//	    log.Println(strata.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
