package tables

import (
	"testing"

	"github.com/tsawler/strata/model"
)

func TestHybridDetector_DiscardsOverlappingStream(t *testing.T) {
	detector := NewHybridDetector()

	input := Input{
		Drawings: ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160),
		Blocks: []*model.Block{
			makeCellBlock("name", 80, 105, 10, false),
			makeCellBlock("price", 210, 105, 10, false),
			makeCellBlock("apple", 80, 135, 10, false),
			makeCellBlock("1.50", 210, 135, 10, false),
		},
		Width:  612,
		Height: 792,
	}

	tables, err := detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected the ruled table to win, got %d tables", len(tables))
	}
	if tables[0].Method != model.MethodLattice {
		t.Errorf("Expected method %v, got %v", model.MethodLattice, tables[0].Method)
	}
	if cell := tables[0].CellAt(0, 0); cell == nil || cell.Content != "name" {
		t.Errorf("Expected cell (0,0) content %q, got %+v", "name", cell)
	}
}

func TestHybridDetector_KeepsDisjointStream(t *testing.T) {
	detector := NewHybridDetector()

	blocks := []*model.Block{
		makeCellBlock("name", 80, 105, 10, false),
		makeCellBlock("price", 210, 105, 10, false),
		makeCellBlock("apple", 80, 135, 10, false),
		makeCellBlock("1.50", 210, 135, 10, false),
	}
	blocks = append(blocks, gridBlocks(
		[]float64{72, 200},
		[]float64{400, 430},
		[][]string{{"e", "f"}, {"g", "h"}},
		false,
	)...)

	input := Input{
		Drawings: ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160),
		Blocks:   blocks,
		Width:    612,
		Height:   792,
	}

	tables, err := detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(tables))
	}

	if tables[0].Method != model.MethodLattice {
		t.Errorf("Expected first table from ruling lines, got %v", tables[0].Method)
	}
	if tables[1].Method != model.MethodHybrid {
		t.Errorf("Expected surviving stream table tagged %v, got %v", model.MethodHybrid, tables[1].Method)
	}
	if !floatNear(tables[1].Confidence, streamConfidence) {
		t.Errorf("Expected survivor to keep confidence %f, got %f", streamConfidence, tables[1].Confidence)
	}
	if cell := tables[1].CellAt(0, 0); cell == nil || cell.Content != "e" {
		t.Errorf("Expected cell (0,0) content %q, got %+v", "e", cell)
	}
}

func TestHybridDetector_ConfigurePropagates(t *testing.T) {
	blocks := gridBlocks(
		[]float64{72, 200, 328},
		[]float64{100, 130, 160},
		[][]string{
			{"item", "count", "price"},
			{"apple", "4", "1.50"},
			{"pear", "2", "0.80"},
		},
		false,
	)
	input := Input{Blocks: blocks, Width: 612, Height: 792}

	detector := NewHybridDetector()
	tables, err := detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 1 || tables[0].Method != model.MethodHybrid {
		t.Fatalf("Expected 1 hybrid table with defaults, got %v", tables)
	}

	config := DefaultConfig()
	config.MinRows = 4
	if err := detector.Configure(config); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	tables, err = detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected raised row minimum to reject the table, got %d", len(tables))
	}
}
