package tables

import (
	"sort"

	"github.com/tsawler/strata/model"
)

// Input is the per-page material table detection works from: the
// segmented text blocks, the page's vector drawing primitives, and the
// page dimensions in page units.
type Input struct {
	Blocks   []*model.Block
	Drawings []model.Drawing
	Width    float64
	Height   float64
}

// Detector is the interface for table detection strategies
type Detector interface {
	// Detect finds tables in a page
	Detect(input Input) ([]*model.Table, error)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Minimum confidence threshold (0-1)
	MinConfidence float64

	// Minimum ruling line length for lattice detection (page units)
	MinLineLength float64

	// Minimum distance between adjacent grid boundaries (page units)
	MinCellSize float64

	// Tolerance for grouping nearby line coordinates (page units)
	LineTolerance float64

	// Raster resolution for lattice line extraction (pixels per page unit)
	RasterScale float64

	// Tolerance for clustering block edges in stream detection (page units)
	EdgeTolerance float64

	// Minimum aligned edges to establish a stream row or column position
	EdgeSupport int

	// Minimum overlap ratio to assign a text component to a cell (0-1)
	OverlapThreshold float64

	// Whether to merge empty cells into adjacent spanning cells
	DetectSpanningCells bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:             2,
		MinCols:             2,
		MinConfidence:       0.5,
		MinLineLength:       10.0,
		MinCellSize:         4.0,
		LineTolerance:       3.0,
		RasterScale:         2.0,
		EdgeTolerance:       8.0,
		EdgeSupport:         2,
		OverlapThreshold:    0.5,
		DetectSpanningCells: true,
	}
}

// DetectorRegistry holds registered detectors
type DetectorRegistry struct {
	detectors map[string]Detector
}

// NewRegistry creates a new detector registry
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		detectors: make(map[string]Detector),
	}
}

// Register registers a detector
func (r *DetectorRegistry) Register(detector Detector) {
	r.detectors[detector.Name()] = detector
}

// Get retrieves a detector by name
func (r *DetectorRegistry) Get(name string) Detector {
	return r.detectors[name]
}

// List returns all registered detector names
func (r *DetectorRegistry) List() []string {
	names := make([]string, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector globally
func RegisterDetector(detector Detector) {
	globalRegistry.Register(detector)
}

// GetDetector retrieves a detector by name
func GetDetector(name string) Detector {
	return globalRegistry.Get(name)
}

// ListDetectors returns all registered detector names
func ListDetectors() []string {
	return globalRegistry.List()
}

func init() {
	// Register default detectors
	RegisterDetector(NewLatticeDetector())
	RegisterDetector(NewStreamDetector())
	RegisterDetector(NewHybridDetector())
}

// sortTables orders tables top to bottom, then left to right.
func sortTables(tables []*model.Table) {
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].BBox.Y0 != tables[j].BBox.Y0 {
			return tables[i].BBox.Y0 < tables[j].BBox.Y0
		}
		return tables[i].BBox.X0 < tables[j].BBox.X0
	})
}
