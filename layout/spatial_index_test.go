package layout

import (
	"testing"

	"github.com/tsawler/strata/model"
)

func TestSpatialIndex_InsertAndQuery(t *testing.T) {
	index := NewSpatialIndex(612, 792, DefaultCellSize)
	boxes := []model.BBox{
		model.NewBBox(10, 10, 50, 30),
		model.NewBBox(100, 10, 150, 30),
		model.NewBBox(10, 200, 50, 230),
		model.NewBBox(500, 700, 560, 730),
	}
	for i, box := range boxes {
		index.Insert(i, box)
	}

	if index.Len() != 4 {
		t.Fatalf("Expected 4 entries, got %d", index.Len())
	}

	hits := index.QueryRect(model.NewBBox(0, 0, 200, 50))
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits in top strip, got %d", len(hits))
	}
	found := map[int]bool{}
	for _, id := range hits {
		found[id] = true
	}
	if !found[0] || !found[1] {
		t.Errorf("Expected ids 0 and 1, got %v", hits)
	}
}

func TestSpatialIndex_QueryMiss(t *testing.T) {
	index := NewSpatialIndex(612, 792, DefaultCellSize)
	index.Insert(0, model.NewBBox(10, 10, 50, 30))

	hits := index.QueryRect(model.NewBBox(300, 300, 400, 400))
	if len(hits) != 0 {
		t.Errorf("Expected no hits, got %v", hits)
	}
}

func TestSpatialIndex_Nearest(t *testing.T) {
	index := NewSpatialIndex(612, 792, DefaultCellSize)
	boxes := []model.BBox{
		model.NewBBox(100, 100, 120, 120), // center (110, 110)
		model.NewBBox(140, 100, 160, 120), // center (150, 110)
		model.NewBBox(400, 400, 420, 420), // center (410, 410)
	}
	for i, box := range boxes {
		index.Insert(i, box)
	}

	nearest := index.Nearest(model.Point{X: 105, Y: 110}, 2)
	if len(nearest) != 2 {
		t.Fatalf("Expected 2 neighbors, got %d", len(nearest))
	}
	if nearest[0] != 0 {
		t.Errorf("Expected id 0 closest, got %d", nearest[0])
	}
	if nearest[1] != 1 {
		t.Errorf("Expected id 1 second, got %d", nearest[1])
	}
}

func TestSpatialIndex_NearestMoreThanAvailable(t *testing.T) {
	index := NewSpatialIndex(612, 792, DefaultCellSize)
	index.Insert(0, model.NewBBox(10, 10, 20, 20))
	index.Insert(1, model.NewBBox(600, 780, 610, 790))

	nearest := index.Nearest(model.Point{X: 0, Y: 0}, 10)
	if len(nearest) != 2 {
		t.Fatalf("Expected all 2 entries, got %d", len(nearest))
	}
	if nearest[0] != 0 || nearest[1] != 1 {
		t.Errorf("Expected [0 1], got %v", nearest)
	}
}

func TestSpatialIndex_Empty(t *testing.T) {
	index := NewSpatialIndex(612, 792, DefaultCellSize)

	if index.Len() != 0 {
		t.Error("Expected empty index")
	}
	if hits := index.QueryRect(model.NewBBox(0, 0, 612, 792)); len(hits) != 0 {
		t.Errorf("Expected no hits, got %v", hits)
	}
	if nearest := index.Nearest(model.Point{X: 300, Y: 400}, 3); len(nearest) != 0 {
		t.Errorf("Expected no neighbors, got %v", nearest)
	}
}

func TestSpatialIndex_OutOfBoundsClamped(t *testing.T) {
	index := NewSpatialIndex(100, 100, DefaultCellSize)
	index.Insert(0, model.NewBBox(-50, -50, -10, -10))
	index.Insert(1, model.NewBBox(200, 200, 250, 250))

	// Both land in clamped edge cells and stay reachable
	if index.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", index.Len())
	}
	nearest := index.Nearest(model.Point{X: 0, Y: 0}, 2)
	if len(nearest) != 2 {
		t.Errorf("Expected 2 neighbors, got %d", len(nearest))
	}
}
