package tables

import (
	"testing"

	"github.com/tsawler/strata/model"
)

// ruledGrid builds stroke drawings for a full grid: one horizontal line
// per Y spanning x0..x1 and one vertical line per X spanning y0..y1.
func ruledGrid(ys, xs []float64, x0, x1, y0, y1 float64) []model.Drawing {
	var drawings []model.Drawing
	for _, y := range ys {
		drawings = append(drawings, model.Drawing{
			Start: model.Point{X: x0, Y: y},
			End:   model.Point{X: x1, Y: y},
			Width: 1,
		})
	}
	for _, x := range xs {
		drawings = append(drawings, model.Drawing{
			Start: model.Point{X: x, Y: y0},
			End:   model.Point{X: x, Y: y1},
			Width: 1,
		})
	}
	return drawings
}

func TestLatticeDetector_SimpleGrid(t *testing.T) {
	detector := NewLatticeDetector()

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
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}

	table := tables[0]
	if table.Rows != 2 || table.Cols != 2 {
		t.Errorf("Expected 2x2 table, got %dx%d", table.Rows, table.Cols)
	}
	if table.Method != model.MethodLattice {
		t.Errorf("Expected method %v, got %v", model.MethodLattice, table.Method)
	}
	if !floatNear(table.Confidence, latticeConfidence) {
		t.Errorf("Expected confidence %f, got %f", latticeConfidence, table.Confidence)
	}

	if !within(table.BBox.X0, 72, 0.75) || !within(table.BBox.Y0, 100, 0.75) ||
		!within(table.BBox.X1, 328, 0.75) || !within(table.BBox.Y1, 160, 0.75) {
		t.Errorf("Expected bbox near (72,100,328,160), got %+v", table.BBox)
	}

	cell := table.CellAt(0, 0)
	if cell == nil || cell.Content != "name" {
		t.Errorf("Expected cell (0,0) content %q, got %+v", "name", cell)
	}
	if !within(cell.BBox.X1, 200, 0.75) || !within(cell.BBox.Y1, 130, 0.75) {
		t.Errorf("Expected cell (0,0) to end near (200,130), got %+v", cell.BBox)
	}

	cell = table.CellAt(1, 1)
	if cell == nil || cell.Content != "1.50" {
		t.Errorf("Expected cell (1,1) content %q, got %+v", "1.50", cell)
	}

	if table.HeaderRows != 1 {
		t.Errorf("Expected HeaderRows=1 fallback, got %d", table.HeaderRows)
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Expected valid table, got %v", err)
	}
}

func TestLatticeDetector_NoDrawings(t *testing.T) {
	detector := NewLatticeDetector()

	tables, err := detector.Detect(Input{Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected no tables without drawings, got %d", len(tables))
	}

	tables, err = detector.Detect(Input{
		Drawings: ruledGrid([]float64{100, 160}, []float64{72, 328}, 72, 328, 100, 160),
	})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected no tables without page dimensions, got %d", len(tables))
	}
}

func TestLatticeDetector_IgnoresShortLines(t *testing.T) {
	detector := NewLatticeDetector()

	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 80}, 72, 80, 100, 160)
	drawings = append(drawings, model.Drawing{
		Start: model.Point{X: 100, Y: 200},
		End:   model.Point{X: 300, Y: 400},
		Width: 1,
	})

	tables, err := detector.Detect(Input{Drawings: drawings, Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected short rules to yield no tables, got %d", len(tables))
	}
}

func TestLatticeDetector_MinCellSize(t *testing.T) {
	detector := NewLatticeDetector()

	input := Input{
		Drawings: ruledGrid([]float64{100, 103.5, 160}, []float64{72, 200, 328}, 72, 328, 100, 160),
		Width:    612,
		Height:   792,
	}

	tables, err := detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected boundaries under the cell minimum to collapse the grid, got %d tables", len(tables))
	}
}

func TestLatticeDetector_TwoSeparateGrids(t *testing.T) {
	detector := NewLatticeDetector()

	drawings := ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160)
	drawings = append(drawings, ruledGrid([]float64{400, 430, 460}, []float64{72, 200, 328}, 72, 328, 400, 460)...)

	tables, err := detector.Detect(Input{Drawings: drawings, Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(tables))
	}
	if !within(tables[0].BBox.Y0, 100, 0.75) {
		t.Errorf("Expected first table near Y0=100, got %f", tables[0].BBox.Y0)
	}
	if !within(tables[1].BBox.Y0, 400, 0.75) {
		t.Errorf("Expected second table near Y0=400, got %f", tables[1].BBox.Y0)
	}
	for _, table := range tables {
		if table.Rows != 2 || table.Cols != 2 {
			t.Errorf("Expected 2x2 table, got %dx%d", table.Rows, table.Cols)
		}
	}
}

func TestLatticeDetector_StrokedRect(t *testing.T) {
	detector := NewLatticeDetector()

	drawings := []model.Drawing{
		{Start: model.Point{X: 72, Y: 100}, End: model.Point{X: 328, Y: 160}, Width: 1, IsRect: true},
		{Start: model.Point{X: 72, Y: 130}, End: model.Point{X: 328, Y: 130}, Width: 1},
		{Start: model.Point{X: 200, Y: 100}, End: model.Point{X: 200, Y: 160}, Width: 1},
	}

	tables, err := detector.Detect(Input{Drawings: drawings, Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table from rect outline, got %d", len(tables))
	}
	if tables[0].Rows != 2 || tables[0].Cols != 2 {
		t.Errorf("Expected 2x2 table, got %dx%d", tables[0].Rows, tables[0].Cols)
	}
	if !within(tables[0].BBox.X0, 72, 0.75) || !within(tables[0].BBox.Y1, 160, 0.75) {
		t.Errorf("Expected bbox near (72,100,328,160), got %+v", tables[0].BBox)
	}
}

func TestLatticeDetector_FilledShadingIgnored(t *testing.T) {
	detector := NewLatticeDetector()

	shading := []model.Drawing{
		{Start: model.Point{X: 72, Y: 100}, End: model.Point{X: 328, Y: 160}, Width: 1, IsRect: true, RectFill: true},
	}
	tables, err := detector.Detect(Input{Drawings: shading, Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected filled shading to yield no tables, got %d", len(tables))
	}

	bar := []model.Drawing{
		{Start: model.Point{X: 72, Y: 100}, End: model.Point{X: 328, Y: 102}, Width: 1, IsRect: true, RectFill: true},
	}
	tables, err = detector.Detect(Input{Drawings: bar, Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected a lone filled bar to yield no tables, got %d", len(tables))
	}
}

func TestLatticeDetector_SpanningMerge(t *testing.T) {
	detector := NewLatticeDetector()

	input := Input{
		Drawings: ruledGrid([]float64{100, 130, 160}, []float64{72, 200, 328}, 72, 328, 100, 160),
		Blocks: []*model.Block{
			makeCellBlock("Total", 80, 105, 10, false),
			makeCellBlock("a", 80, 135, 10, false),
			makeCellBlock("b", 210, 135, 10, false),
		},
		Width:  612,
		Height: 792,
	}

	tables, err := detector.Detect(input)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}

	table := tables[0]
	cell := table.CellAt(0, 0)
	if cell == nil || cell.ColSpan != 2 {
		t.Fatalf("Expected cell (0,0) to span 2 columns, got %+v", cell)
	}
	if table.CellAt(0, 1) != nil {
		t.Error("Expected cell (0,1) to be absorbed by the span")
	}
	if len(table.Cells) != 3 {
		t.Errorf("Expected 3 surviving cells, got %d", len(table.Cells))
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Expected valid table after merge, got %v", err)
	}
}

func TestEnforceMinGap(t *testing.T) {
	got := enforceMinGap([]float64{100, 103.5, 160}, 4)
	if len(got) != 2 || !floatNear(got[0], 100) || !floatNear(got[1], 160) {
		t.Errorf("Expected [100 160], got %v", got)
	}

	got = enforceMinGap([]float64{100, 130, 160}, 4)
	if len(got) != 3 {
		t.Errorf("Expected all boundaries kept, got %v", got)
	}

	if got := enforceMinGap(nil, 4); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}

	got = enforceMinGap([]float64{100, 101}, 0)
	if len(got) != 2 {
		t.Errorf("Expected zero minimum to keep everything, got %v", got)
	}
}
