package layout

import (
	"testing"

	"github.com/tsawler/strata/model"
)

func TestGraphBuilder_Containment(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(0, 0, 100, 100),
		model.NewBBox(10, 10, 50, 50),
	}

	graph := builder.Build(boxes)

	if graph.NodeCount() != 2 {
		t.Fatalf("Expected 2 nodes, got %d", graph.NodeCount())
	}
	edge, ok := graph.Related(0, 1, model.RelContains)
	if !ok {
		t.Fatal("Expected a contains edge from 0 to 1")
	}
	if edge.Confidence != 1.0 {
		t.Errorf("Containment confidence should be 1, got %.2f", edge.Confidence)
	}
	if _, ok := graph.Related(1, 0, model.RelContainedBy); !ok {
		t.Error("Expected a contained_by edge from 1 to 0")
	}
}

func TestGraphBuilder_BelowDecay(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(100, 100, 200, 120),
		model.NewBBox(100, 170, 200, 190),
	}

	graph := builder.Build(boxes)

	edge, ok := graph.Related(0, 1, model.RelBelow)
	if !ok {
		t.Fatal("Expected a below edge from 0 to 1")
	}
	// A 50 unit gap against the 200 unit threshold leaves 0.75
	if absFloat(edge.Confidence-0.75) > 0.001 {
		t.Errorf("Expected confidence 0.75, got %.3f", edge.Confidence)
	}
	if edge.Weight != 50 {
		t.Errorf("Expected weight 50, got %.1f", edge.Weight)
	}
	if _, ok := graph.Related(1, 0, model.RelBelow); ok {
		t.Error("The lower block must not be below the upper one")
	}
}

func TestGraphBuilder_RightEdge(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(100, 100, 150, 120),
		model.NewBBox(180, 100, 230, 120),
	}

	graph := builder.Build(boxes)

	edge, ok := graph.Related(0, 1, model.RelRight)
	if !ok {
		t.Fatal("Expected a right edge from 0 to 1")
	}
	if absFloat(edge.Confidence-0.85) > 0.001 {
		t.Errorf("Expected confidence 0.85, got %.3f", edge.Confidence)
	}
	if _, ok := graph.Related(1, 0, model.RelRight); ok {
		t.Error("The left block must not be right of the right one")
	}
}

func TestGraphBuilder_NearEdges(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(100, 100, 200, 120),
		model.NewBBox(100, 170, 200, 190),
	}

	graph := builder.Build(boxes)

	// Centers 70 apart against the 100 unit near threshold
	edge, ok := graph.Related(0, 1, model.RelNear)
	if !ok {
		t.Fatal("Expected a near edge from 0 to 1")
	}
	if absFloat(edge.Confidence-0.3) > 0.001 {
		t.Errorf("Expected confidence 0.3, got %.3f", edge.Confidence)
	}
	if _, ok := graph.Related(1, 0, model.RelNear); !ok {
		t.Error("Near edges should appear in both directions")
	}
}

func TestGraphBuilder_FarApartNoEdges(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(0, 0, 10, 10),
		model.NewBBox(500, 700, 510, 710),
	}

	graph := builder.Build(boxes)

	if graph.EdgeCount() != 0 {
		t.Errorf("Expected no edges for distant unaligned boxes, got %d", graph.EdgeCount())
	}
}

func TestGraphBuilder_BeyondDistanceThreshold(t *testing.T) {
	builder := NewGraphBuilder()
	boxes := []model.BBox{
		model.NewBBox(100, 100, 200, 120),
		model.NewBBox(100, 400, 200, 420),
	}

	graph := builder.Build(boxes)

	// A 280 unit gap exceeds the 200 unit threshold, so no edge survives
	if _, ok := graph.Related(0, 1, model.RelBelow); ok {
		t.Error("Below confidence should decay to zero past the threshold")
	}
	if graph.EdgeCount() != 0 {
		t.Errorf("Expected no edges, got %d", graph.EdgeCount())
	}
}

func TestGraphBuilder_DecayBounds(t *testing.T) {
	builder := NewGraphBuilder()

	if got := builder.decay(0, 200); got != 1.0 {
		t.Errorf("Zero distance should give confidence 1, got %.2f", got)
	}
	if got := builder.decay(100, 200); absFloat(got-0.5) > 0.001 {
		t.Errorf("Half the threshold should give 0.5, got %.2f", got)
	}
	if got := builder.decay(250, 200); got != 0 {
		t.Errorf("Past the threshold should give 0, got %.2f", got)
	}

	prev := 1.1
	for d := 0.0; d <= 400; d += 25 {
		conf := builder.decay(d, 200)
		if conf < 0 || conf > 1 {
			t.Fatalf("Confidence out of range at distance %.0f: %.3f", d, conf)
		}
		if conf > prev {
			t.Fatalf("Confidence should never rise with distance")
		}
		prev = conf
	}
}
