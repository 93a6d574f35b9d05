package terminal

import (
	"github.com/mattn/go-runewidth"
)

// Framebuffer owns the grid. Nothing else mutates the rows.
type Framebuffer struct {
	rows []Row

	// DS is the draw state the emulator layer parameterises drawing with.
	DS *DrawState
}

// NewFramebuffer creates a blank width x height grid.
func NewFramebuffer(width, height int) *Framebuffer {
	rows := make([]Row, height)
	for i := range rows {
		rows[i] = NewRow(width)
	}
	return &Framebuffer{
		rows: rows,
		DS:   NewDrawState(width, height),
	}
}

// Row returns the row at index i.
func (fb *Framebuffer) Row(i int) *Row {
	return &fb.rows[i]
}

func (fb *Framebuffer) deleteRow(i int) {
	fb.rows = append(fb.rows[:i], fb.rows[i+1:]...)
}

func (fb *Framebuffer) insertRow(i int) {
	fb.rows = append(fb.rows, Row{})
	copy(fb.rows[i+1:], fb.rows[i:])
	fb.rows[i] = NewRow(fb.DS.Width())
}

// Scroll shifts the rows between LimitTop and LimitBottom (the scrolling
// region in origin mode, the whole screen otherwise) by n rows: up for
// positive n (the top row leaves, a blank row enters at the bottom), down
// for negative n. The cursor moves with its screen line, pinned to the
// limits when it would leave.
func (fb *Framebuffer) Scroll(n int) {
	if n >= 0 {
		for i := 0; i < n; i++ {
			fb.deleteRow(fb.DS.LimitTop())
			fb.insertRow(fb.DS.LimitBottom())
			fb.DS.MoveRow(-1, true)
		}
	} else {
		for i := 0; i < -n; i++ {
			fb.deleteRow(fb.DS.LimitBottom())
			fb.insertRow(fb.DS.LimitTop())
			fb.DS.MoveRow(1, true)
		}
	}
}

// MoveRowsAutoscroll moves the cursor by rows, scrolling first by however
// far the move would overrun LimitTop or LimitBottom.
func (fb *Framebuffer) MoveRowsAutoscroll(rows int) {
	if fb.DS.CursorRow()+rows > fb.DS.LimitBottom() {
		fb.Scroll(fb.DS.CursorRow() + rows - fb.DS.LimitBottom())
	} else if fb.DS.CursorRow()+rows < fb.DS.LimitTop() {
		fb.Scroll(fb.DS.CursorRow() + rows - fb.DS.LimitTop())
	}

	fb.DS.MoveRow(rows, true)
}

// CursorCell returns the cell under the cursor, or nil on a degenerate
// grid.
func (fb *Framebuffer) CursorCell() *Cell {
	if fb.DS.Width() == 0 || fb.DS.Height() == 0 {
		return nil
	}
	return &fb.rows[fb.DS.CursorRow()].Cells[fb.DS.CursorCol()]
}

// GetCell returns the cell at (row, col); -1 for either coordinate means
// the cursor position.
func (fb *Framebuffer) GetCell(row, col int) *Cell {
	if row == -1 {
		row = fb.DS.CursorRow()
	}
	if col == -1 {
		col = fb.DS.CursorCol()
	}
	return &fb.rows[row].Cells[col]
}

// GetCombiningCell returns the cell at the combining-mark anchor.
func (fb *Framebuffer) GetCombiningCell() *Cell {
	return &fb.rows[fb.DS.CombiningCharRow()].Cells[fb.DS.CombiningCharCol()]
}

// ClaimOverlap records the cells a freshly placed wide glyph at (row, col)
// occludes: each column under the glyph is reset, pushed onto the base's
// list, and back-linked to the base.
func (fb *Framebuffer) ClaimOverlap(row, col int) {
	base := &fb.rows[row].Cells[col]

	for i := col + 1; i < col+base.Width; i++ {
		if i < fb.DS.Width() {
			next := &fb.rows[row].Cells[i]
			next.Reset()
			base.overlappedCells = append(base.overlappedCells, next)
			next.overlappingCell = base
		}
	}
}

// PlaceGrapheme writes one grapheme cluster at the cursor. A pending wrap
// (with auto-wrap on) first carriage-returns and autoscrolls to the next
// line. Zero-width clusters are appended to the combining cell instead of
// occupying a position of their own. Wide glyphs claim their occluded
// neighbours.
func (fb *Framebuffer) PlaceGrapheme(cluster string) {
	w := runewidth.StringWidth(cluster)

	if w == 0 {
		cell := fb.GetCombiningCell()
		if cell == nil || cell.Empty() {
			return
		}
		cell.Contents = append(cell.Contents, []rune(cluster)...)
		return
	}

	if fb.DS.NextPrintWillWrap && fb.DS.AutoWrapMode {
		fb.DS.MoveCol(0, false, false)
		fb.MoveRowsAutoscroll(1)
	}

	cell := fb.CursorCell()
	if cell == nil {
		return
	}
	cell.Reset()
	cell.Contents = append(cell.Contents, []rune(cluster)...)
	cell.Width = w

	if w > 1 {
		fb.ClaimOverlap(fb.DS.CursorRow(), fb.DS.CursorCol())
	}

	fb.DS.MoveCol(w, true, true)
}

// PlaceString segments s into grapheme clusters and places each in turn.
func (fb *Framebuffer) PlaceString(s string) {
	for _, cluster := range Graphemes(s) {
		fb.PlaceGrapheme(cluster)
	}
}
