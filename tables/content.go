package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/strata/model"
)

// Header rows must exceed the table-wide average font size by this
// ratio to count as large type.
const headerFontRatio = 1.1

// tableFromGrid creates a table sized to the grid with each cell's
// bounding box set from the grid geometry.
func tableFromGrid(grid *model.TableGrid) *model.Table {
	table := model.NewTable(grid.RowCount(), grid.ColCount())
	for r := 0; r < grid.RowCount(); r++ {
		for c := 0; c < grid.ColCount(); c++ {
			if cell := table.CellAt(r, c); cell != nil {
				cell.BBox = grid.CellBBox(r, c)
			}
		}
	}
	table.BBox = grid.BBox()
	return table
}

// cellAccumulator gathers the components assigned to one cell along
// with the style evidence used for header detection.
type cellAccumulator struct {
	comps   []model.TextComponent
	bold    int
	total   int
	fontSum float64
}

// populateTable fills the table cells with text from the given blocks,
// derives header rows, and merges spanning cells when enabled.
func populateTable(table *model.Table, grid *model.TableGrid, blocks []*model.Block, config Config) {
	rows, cols := grid.RowCount(), grid.ColCount()
	if rows == 0 || cols == 0 {
		return
	}

	cells := make([][]cellAccumulator, rows)
	for r := range cells {
		cells[r] = make([]cellAccumulator, cols)
	}

	// Step 1: assign components to the cell holding their center when
	// the overlap ratio clears the threshold
	for _, block := range blocks {
		if block == nil {
			continue
		}
		for _, line := range block.Lines {
			for _, comp := range line.Components {
				r, c := locateCell(grid, comp.BBox)
				if r < 0 || c < 0 {
					continue
				}
				if comp.BBox.OverlapRatio(grid.CellBBox(r, c)) < config.OverlapThreshold {
					continue
				}
				acc := &cells[r][c]
				acc.comps = append(acc.comps, comp)
				acc.total++
				if comp.Bold {
					acc.bold++
				}
				acc.fontSum += comp.FontSize
			}
		}
	}

	// Step 2: order and join each cell's components
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			text := joinCellText(cells[r][c].comps)
			if text == "" {
				continue
			}
			if cell := table.CellAt(r, c); cell != nil {
				cell.Content = text
			}
		}
	}

	// Step 3: header rows from styling, falling back to the first row
	markHeaderRows(table, cells)

	// Step 4: merge empty cells into adjacent spans
	if config.DetectSpanningCells {
		mergeSpanningCells(table)
	}
}

// locateCell returns the grid position whose cell contains the box
// center, or (-1, -1) when the center falls outside the grid.
func locateCell(grid *model.TableGrid, box model.BBox) (int, int) {
	center := box.Center()
	return boundedIndex(grid.Rows, center.Y), boundedIndex(grid.Cols, center.X)
}

// boundedIndex returns i such that bounds[i] <= v < bounds[i+1], or -1
// when v lies outside the boundary range.
func boundedIndex(bounds []float64, v float64) int {
	for i := 0; i+1 < len(bounds); i++ {
		if v >= bounds[i] && v < bounds[i+1] {
			return i
		}
	}
	return -1
}

// joinCellText orders a cell's components into visual lines and joins
// them, lines top to bottom and components left to right with spacing
// proportional to the gap between them.
func joinCellText(comps []model.TextComponent) string {
	if len(comps) == 0 {
		return ""
	}

	sorted := make([]model.TextComponent, len(comps))
	copy(sorted, comps)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var lines [][]model.TextComponent
	for _, comp := range sorted {
		if len(lines) == 0 || !sameVisualLine(lines[len(lines)-1], comp) {
			lines = append(lines, []model.TextComponent{comp})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], comp)
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.Slice(line, func(i, j int) bool {
			return line[i].BBox.X0 < line[j].BBox.X0
		})
		parts = append(parts, joinLineText(line))
	}
	return strings.Join(parts, " ")
}

// sameVisualLine reports whether the component shares a baseline with
// the line being built, judged by vertical overlap against the shorter
// of the two heights.
func sameVisualLine(line []model.TextComponent, comp model.TextComponent) bool {
	last := line[len(line)-1]
	overlap := last.BBox.VerticalOverlap(comp.BBox)
	minHeight := math.Min(last.BBox.Height(), comp.BBox.Height())
	if minHeight <= 0 {
		return overlap > 0
	}
	return overlap/minHeight >= 0.5
}

// joinLineText concatenates components left to right. Neighbors that
// nearly touch are glued; otherwise the space count grows with the gap.
func joinLineText(line []model.TextComponent) string {
	var sb strings.Builder
	for i, comp := range line {
		if i > 0 {
			gap := comp.BBox.X0 - line[i-1].BBox.X1
			sb.WriteString(strings.Repeat(" ", spacesForGap(gap, line[i-1].FontSize)))
		}
		sb.WriteString(comp.Text)
	}
	return sb.String()
}

// spacesForGap converts a horizontal gap into a space count, using a
// quarter of the font size as the width of one space.
func spacesForGap(gap, fontSize float64) int {
	if fontSize <= 0 {
		fontSize = 10
	}
	unit := fontSize / 4
	if gap < unit/2 {
		return 0
	}
	n := int(math.Round(gap / unit))
	if n < 1 {
		n = 1
	}
	return n
}

// markHeaderRows sets HeaderRows and the per-cell header flags. Leading
// rows qualify while a majority of their filled cells carry bold or
// large type; when no row qualifies the first row is assumed to be the
// header.
func markHeaderRows(table *model.Table, cells [][]cellAccumulator) {
	if table.Rows == 0 {
		return
	}

	bodyFont := averageFontSize(cells)
	headerRows := 0
	for r := 0; r < table.Rows-1; r++ {
		if !styledMajority(cells[r], bodyFont) {
			break
		}
		headerRows++
	}
	if headerRows == 0 {
		headerRows = 1
	}

	table.HeaderRows = headerRows
	for i := range table.Cells {
		if table.Cells[i].Row < headerRows {
			table.Cells[i].IsHeader = true
		}
	}
}

// averageFontSize returns the mean font size across every assigned
// component, 0 when the table holds no text.
func averageFontSize(cells [][]cellAccumulator) float64 {
	var sum float64
	var count int
	for _, row := range cells {
		for _, acc := range row {
			sum += acc.fontSum
			count += acc.total
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// styledMajority reports whether most filled cells in the row carry
// bold or large type.
func styledMajority(row []cellAccumulator, bodyFont float64) bool {
	filled, styled := 0, 0
	for _, acc := range row {
		if acc.total == 0 {
			continue
		}
		filled++
		boldMajority := acc.bold*2 > acc.total
		largeType := bodyFont > 0 && acc.fontSum/float64(acc.total) > bodyFont*headerFontRatio
		if boldMajority || largeType {
			styled++
		}
	}
	return filled > 0 && styled*2 > filled
}

// mergeSpanningCells merges empty cells into an adjacent non-empty
// cell, first along rows and then along columns. A cell is absorbed
// only when the candidate's span ends exactly where the empty cell
// begins, so a merge never jumps a gap. The pass is idempotent: merged
// positions lose their cell, and a second pass finds nothing left to
// absorb.
func mergeSpanningCells(table *model.Table) {
	if table == nil || table.Rows == 0 || table.Cols == 0 {
		return
	}

	anchors := make([][]*model.TableCell, table.Rows)
	for r := range anchors {
		anchors[r] = make([]*model.TableCell, table.Cols)
	}
	for i := range table.Cells {
		cell := &table.Cells[i]
		if cell.Row >= 0 && cell.Row < table.Rows && cell.Col >= 0 && cell.Col < table.Cols {
			anchors[cell.Row][cell.Col] = cell
		}
	}

	removed := 0

	// Row pass: absorb leftward into the cell whose span ends here
	for r := 0; r < table.Rows; r++ {
		for c := 1; c < table.Cols; c++ {
			empty := anchors[r][c]
			if empty == nil || empty.Content != "" || empty.RowSpan != 1 || empty.ColSpan != 1 {
				continue
			}
			left := previousInRow(anchors[r], c)
			if left == nil || left.Content == "" || left.RowSpan != 1 || left.Col+left.ColSpan != c {
				continue
			}
			left.ColSpan++
			left.BBox = left.BBox.Union(empty.BBox)
			anchors[r][c] = nil
			removed++
		}
	}

	// Column pass: absorb upward into the cell whose span ends here
	for c := 0; c < table.Cols; c++ {
		for r := 1; r < table.Rows; r++ {
			empty := anchors[r][c]
			if empty == nil || empty.Content != "" || empty.RowSpan != 1 || empty.ColSpan != 1 {
				continue
			}
			above := previousInColumn(anchors, r, c)
			if above == nil || above.Content == "" || above.ColSpan != empty.ColSpan || above.Row+above.RowSpan != r {
				continue
			}
			above.RowSpan++
			above.BBox = above.BBox.Union(empty.BBox)
			anchors[r][c] = nil
			removed++
		}
	}

	if removed == 0 {
		return
	}

	kept := make([]model.TableCell, 0, len(table.Cells)-removed)
	for r := 0; r < table.Rows; r++ {
		for c := 0; c < table.Cols; c++ {
			if anchors[r][c] != nil {
				kept = append(kept, *anchors[r][c])
			}
		}
	}
	table.Cells = kept
}

// previousInRow returns the nearest anchored cell to the left of the
// given column, or nil.
func previousInRow(row []*model.TableCell, col int) *model.TableCell {
	for c := col - 1; c >= 0; c-- {
		if row[c] != nil {
			return row[c]
		}
	}
	return nil
}

// previousInColumn returns the nearest cell anchored in the same column
// above the given row, or nil.
func previousInColumn(anchors [][]*model.TableCell, row, col int) *model.TableCell {
	for r := row - 1; r >= 0; r-- {
		if anchors[r][col] != nil {
			return anchors[r][col]
		}
	}
	return nil
}
