package model

import (
	"fmt"
	"strings"
)

// DetectionMethod identifies which strategy recovered a table
type DetectionMethod int

const (
	// MethodLattice recovers tables from ruled grid lines
	MethodLattice DetectionMethod = iota
	// MethodStream recovers tables from text edge alignment
	MethodStream
	// MethodHybrid marks stream tables that survived reconciliation
	// against lattice results.
	MethodHybrid
)

var detectionMethodNames = map[DetectionMethod]string{
	MethodLattice: "lattice",
	MethodStream:  "stream",
	MethodHybrid:  "hybrid",
}

// String returns a human-readable representation of the method
func (m DetectionMethod) String() string {
	if name, ok := detectionMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the method as its string name
func (m DetectionMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a method from its string name
func (m *DetectionMethod) UnmarshalText(text []byte) error {
	name := string(text)
	for method, methodName := range detectionMethodNames {
		if methodName == name {
			*m = method
			return nil
		}
	}
	return fmt.Errorf("unknown detection method %q", name)
}

// TableCell represents one cell of a recovered table. Row and Col are
// the cell's anchor position (0-indexed); RowSpan and ColSpan are at
// least 1 and the covered range must stay inside the table grid.
type TableCell struct {
	BBox     BBox   `json:"bbox"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	RowSpan  int    `json:"row_span"`
	ColSpan  int    `json:"col_span"`
	Content  string `json:"content"`
	IsHeader bool   `json:"is_header,omitempty"`
}

// Covers reports whether the cell's span covers the given grid position
func (c TableCell) Covers(row, col int) bool {
	return row >= c.Row && row < c.Row+c.RowSpan &&
		col >= c.Col && col < c.Col+c.ColSpan
}

// Table represents a recovered table with its cell grid
type Table struct {
	BBox BBox `json:"bbox"`

	// Cells are the surviving cells in row-major order. Positions
	// covered by a span have no cell of their own.
	Cells []TableCell `json:"cells"`

	// Rows and Cols are the grid dimensions
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// HeaderRows is the number of leading rows detected as headers
	HeaderRows int `json:"header_rows"`

	// Method is the strategy that recovered this table
	Method DetectionMethod `json:"method"`

	// Confidence is the detection confidence in [0, 1]
	Confidence float64 `json:"confidence"`

	// Page is the 1-indexed page the table was found on
	Page int `json:"page,omitempty"`
}

// NewTable creates a table with the given dimensions, one unit cell per
// grid position.
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:       rows,
		Cols:       cols,
		Cells:      make([]TableCell, 0, rows*cols),
		Confidence: 1.0,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			table.Cells = append(table.Cells, TableCell{
				Row:     r,
				Col:     c,
				RowSpan: 1,
				ColSpan: 1,
			})
		}
	}
	return table
}

// CellAt returns the cell anchored at the given position (0-indexed),
// or nil when the position is covered by a span or out of range.
func (t *Table) CellAt(row, col int) *TableCell {
	if t == nil {
		return nil
	}
	for i := range t.Cells {
		if t.Cells[i].Row == row && t.Cells[i].Col == col {
			return &t.Cells[i]
		}
	}
	return nil
}

// CoveringCell returns the cell whose span covers the given position,
// or nil when no cell covers it.
func (t *Table) CoveringCell(row, col int) *TableCell {
	if t == nil {
		return nil
	}
	for i := range t.Cells {
		if t.Cells[i].Covers(row, col) {
			return &t.Cells[i]
		}
	}
	return nil
}

// SetCellContent sets the content of the cell anchored at the given
// position.
func (t *Table) SetCellContent(row, col int, content string) error {
	if row < 0 || row >= t.Rows {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= t.Cols {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	cell := t.CellAt(row, col)
	if cell == nil {
		return fmt.Errorf("no cell anchored at %d,%d", row, col)
	}
	cell.Content = content
	return nil
}

// Validate checks the span invariants: every cell stays inside the
// grid, spans are at least 1, and no two cells cover the same position.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("nil table")
	}
	covered := make(map[[2]int]int, t.Rows*t.Cols)
	for i, cell := range t.Cells {
		if cell.RowSpan < 1 || cell.ColSpan < 1 {
			return fmt.Errorf("cell %d: span %dx%d below 1", i, cell.RowSpan, cell.ColSpan)
		}
		if cell.Row < 0 || cell.Row+cell.RowSpan-1 >= t.Rows {
			return fmt.Errorf("cell %d: rows %d..%d outside grid of %d", i, cell.Row, cell.Row+cell.RowSpan-1, t.Rows)
		}
		if cell.Col < 0 || cell.Col+cell.ColSpan-1 >= t.Cols {
			return fmt.Errorf("cell %d: cols %d..%d outside grid of %d", i, cell.Col, cell.Col+cell.ColSpan-1, t.Cols)
		}
		for r := cell.Row; r < cell.Row+cell.RowSpan; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan; c++ {
				if prev, ok := covered[[2]int{r, c}]; ok {
					return fmt.Errorf("cells %d and %d both cover %d,%d", prev, i, r, c)
				}
				covered[[2]int{r, c}] = i
			}
		}
	}
	return nil
}

// GetText returns the table content as tab-separated rows
func (t *Table) GetText() string {
	var sb strings.Builder
	matrix := t.textMatrix()
	for _, row := range matrix {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// textMatrix renders the cells into a rows×cols text grid; positions
// covered by a span other than the anchor are empty.
func (t *Table) textMatrix() [][]string {
	matrix := make([][]string, t.Rows)
	for r := range matrix {
		matrix[r] = make([]string, t.Cols)
	}
	for _, cell := range t.Cells {
		if cell.Row >= 0 && cell.Row < t.Rows && cell.Col >= 0 && cell.Col < t.Cols {
			matrix[cell.Row][cell.Col] = cell.Content
		}
	}
	return matrix
}

// ToMarkdown converts the table to markdown format. The separator is
// written after the header rows (after the first row when none were
// detected).
func (t *Table) ToMarkdown() string {
	if t.Rows == 0 || t.Cols == 0 {
		return ""
	}

	matrix := t.textMatrix()
	headerRows := t.HeaderRows
	if headerRows < 1 {
		headerRows = 1
	}
	if headerRows > t.Rows {
		headerRows = t.Rows
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, text := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(text, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	for r := 0; r < headerRows; r++ {
		writeRow(matrix[r])
	}

	for j := 0; j < t.Cols; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for r := headerRows; r < t.Rows; r++ {
		writeRow(matrix[r])
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.textMatrix() {
		for j, text := range row {
			// Escape quotes and wrap in quotes if necessary
			if strings.Contains(text, ",") || strings.Contains(text, "\"") || strings.Contains(text, "\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// TableGrid represents the boundary structure a detector recovered
// before cells were built: sorted row and column boundary coordinates.
type TableGrid struct {
	Rows []float64 // Y-coordinates of row boundaries, top to bottom
	Cols []float64 // X-coordinates of column boundaries, left to right
}

// NewTableGrid creates a new empty grid
func NewTableGrid() *TableGrid {
	return &TableGrid{
		Rows: make([]float64, 0),
		Cols: make([]float64, 0),
	}
}

// RowCount returns the number of rows
func (g *TableGrid) RowCount() int {
	if g == nil || len(g.Rows) <= 1 {
		return 0
	}
	return len(g.Rows) - 1
}

// ColCount returns the number of columns
func (g *TableGrid) ColCount() int {
	if g == nil || len(g.Cols) <= 1 {
		return 0
	}
	return len(g.Cols) - 1
}

// CellBBox returns the bounding box for a grid cell
func (g *TableGrid) CellBBox(row, col int) BBox {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return BBox{}
	}
	return BBox{
		X0: g.Cols[col],
		Y0: g.Rows[row],
		X1: g.Cols[col+1],
		Y1: g.Rows[row+1],
	}
}

// BBox returns the box covering the whole grid
func (g *TableGrid) BBox() BBox {
	if g.RowCount() == 0 || g.ColCount() == 0 {
		return BBox{}
	}
	return BBox{
		X0: g.Cols[0],
		Y0: g.Rows[0],
		X1: g.Cols[len(g.Cols)-1],
		Y1: g.Rows[len(g.Rows)-1],
	}
}
