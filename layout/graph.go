package layout

import (
	"github.com/tsawler/strata/model"
)

// GraphConfig holds configuration for spatial graph construction
type GraphConfig struct {
	// DistanceThreshold is the gap, in page units, at which Below and
	// Right edge confidence decays to zero (default: 200)
	DistanceThreshold float64

	// NearThreshold is the maximum center distance for a Near edge; the
	// confidence decays linearly to zero at this distance (default: 100)
	NearThreshold float64

	// OverlapTolerance expands boxes during the stacking overlap tests,
	// in page units (default: 2.0)
	OverlapTolerance float64
}

// DefaultGraphConfig returns sensible default configuration
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		DistanceThreshold: 200.0,
		NearThreshold:     100.0,
		OverlapTolerance:  2.0,
	}
}

// GraphBuilder constructs the confidence-weighted spatial relationship
// graph over a page's blocks. The graph is built once and read-only
// afterward; Above and Left relations are reachable through
// [model.Relation.Inverse] rather than stored.
type GraphBuilder struct {
	config GraphConfig
}

// NewGraphBuilder creates a new graph builder with default configuration
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		config: DefaultGraphConfig(),
	}
}

// NewGraphBuilderWithConfig creates a graph builder with custom configuration
func NewGraphBuilderWithConfig(config GraphConfig) *GraphBuilder {
	return &GraphBuilder{
		config: config,
	}
}

// Build examines every ordered block pair and emits containment,
// stacking, and proximity edges. Containment carries confidence 1;
// stacking and proximity confidence decays linearly with distance.
func (b *GraphBuilder) Build(boxes []model.BBox) *model.SpatialGraph {
	graph := model.NewSpatialGraph(len(boxes))
	tol := b.config.OverlapTolerance

	for i := range boxes {
		for j := range boxes {
			if i == j {
				continue
			}

			centerDist := boxes[i].Center().Distance(boxes[j].Center())

			// Containment edges carry full confidence
			switch {
			case boxes[i].ContainsBox(boxes[j]):
				graph.AddEdge(model.Edge{
					From: i, To: j,
					Relation:   model.RelContains,
					Weight:     centerDist,
					Confidence: 1.0,
				})
			case boxes[j].ContainsBox(boxes[i]):
				graph.AddEdge(model.Edge{
					From: i, To: j,
					Relation:   model.RelContainedBy,
					Weight:     centerDist,
					Confidence: 1.0,
				})
			default:
				// Stacking edges require overlap on the perpendicular axis
				if boxes[j].Y0 >= boxes[i].Y1-tol &&
					boxes[i].Expand(tol).HorizontalOverlap(boxes[j].Expand(tol)) > 0 {
					gap := maxFloat(0, boxes[j].Y0-boxes[i].Y1)
					if conf := b.decay(gap, b.config.DistanceThreshold); conf > 0 {
						graph.AddEdge(model.Edge{
							From: i, To: j,
							Relation:   model.RelBelow,
							Weight:     gap,
							Confidence: conf,
						})
					}
				}
				if boxes[j].X0 >= boxes[i].X1-tol &&
					boxes[i].Expand(tol).VerticalOverlap(boxes[j].Expand(tol)) > 0 {
					gap := maxFloat(0, boxes[j].X0-boxes[i].X1)
					if conf := b.decay(gap, b.config.DistanceThreshold); conf > 0 {
						graph.AddEdge(model.Edge{
							From: i, To: j,
							Relation:   model.RelRight,
							Weight:     gap,
							Confidence: conf,
						})
					}
				}
			}

			// Proximity edges by center distance
			if conf := b.decay(centerDist, b.config.NearThreshold); conf > 0 {
				graph.AddEdge(model.Edge{
					From: i, To: j,
					Relation:   model.RelNear,
					Weight:     centerDist,
					Confidence: conf,
				})
			}
		}
	}
	return graph
}

// decay maps a distance to a confidence falling linearly from 1 at zero
// distance to 0 at the threshold.
func (b *GraphBuilder) decay(distance, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	conf := 1.0 - distance/threshold
	if conf < 0 {
		return 0
	}
	return conf
}
