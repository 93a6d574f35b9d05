package terminal

// Row is a fixed-width sequence of cells.
type Row struct {
	Cells []Cell
}

// NewRow creates a row of blank narrow cells.
func NewRow(width int) Row {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i].Width = 1
	}
	return Row{Cells: cells}
}
