package tables

import (
	"github.com/tsawler/strata/model"
)

// Stream tables overlapping a lattice table by more than this ratio
// duplicate a ruled finding and are discarded.
const hybridOverlapLimit = 0.3

// HybridDetector runs lattice detection first and stream detection
// second, keeping stream tables only where no ruled table was found.
type HybridDetector struct {
	config  Config
	lattice *LatticeDetector
	stream  *StreamDetector
}

// NewHybridDetector creates a hybrid detector with default configuration.
func NewHybridDetector() *HybridDetector {
	return &HybridDetector{
		config:  DefaultConfig(),
		lattice: NewLatticeDetector(),
		stream:  NewStreamDetector(),
	}
}

// Name returns the detector's identifier ("hybrid").
func (d *HybridDetector) Name() string {
	return "hybrid"
}

// Configure sets the configuration on the hybrid detector and both
// underlying detectors.
func (d *HybridDetector) Configure(config Config) error {
	d.config = config
	if err := d.lattice.Configure(config); err != nil {
		return err
	}
	return d.stream.Configure(config)
}

// Detect runs lattice then stream detection on the page. Ruled tables
// take precedence: a stream table overlapping one by more than the
// hybrid limit is discarded, and survivors are tagged as hybrid
// findings.
func (d *HybridDetector) Detect(input Input) ([]*model.Table, error) {
	ruled, err := d.lattice.Detect(input)
	if err != nil {
		return nil, err
	}

	aligned, err := d.stream.Detect(input)
	if err != nil {
		return nil, err
	}

	tables := ruled
	for _, table := range aligned {
		if overlapsAny(table, ruled) {
			continue
		}
		table.Method = model.MethodHybrid
		tables = append(tables, table)
	}

	sortTables(tables)
	return tables, nil
}

// overlapsAny reports whether the table overlaps any ruled table by
// more than the hybrid overlap limit.
func overlapsAny(table *model.Table, ruled []*model.Table) bool {
	for _, other := range ruled {
		if table.BBox.OverlapRatio(other.BBox) > hybridOverlapLimit {
			return true
		}
	}
	return false
}
