package ir

// TableBlock is a table assembled from cell and row marks. A table nested
// in a cell is flattened into that cell's text.
type TableBlock struct {
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Cells   [][]Cell `json:"cells,omitempty"`
	RawText string   `json:"raw_text,omitempty"` // 셀은 탭, 행은 줄바꿈으로 구분
}

// Cell is one table cell. Rows shorter than the widest row are padded
// with cells that have Missing set.
type Cell struct {
	Text    string `json:"text"`
	Missing bool   `json:"missing,omitempty"`
}

// NewTable returns a rows x cols table of missing cells.
func NewTable(rows, cols int) *TableBlock {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j].Missing = true
		}
	}
	return &TableBlock{Rows: rows, Cols: cols, Cells: cells}
}

// SetCell stores text at (row, col). Out-of-range positions are ignored.
func (t *TableBlock) SetCell(row, col int, text string) {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return
	}
	t.Cells[row][col] = Cell{Text: text}
}
