// Package terminal implements the grid data model the emulator layer draws
// into: rows of cells with wide-character overlap tracking, and the draw
// state (cursor, tabs, scrolling region, wrap modes) that governs them.
package terminal

// Cell is one grid position. Contents holds the code points of a single
// grapheme cluster (base character plus combining marks); Width is its
// display width in columns.
//
// Wide glyphs occlude their right neighbours. The base cell records the
// occluded cells and each occluded cell back-links to its base, forming a
// forest of depth one: a cell is never both a base and occluded, and sits
// in at most one base's list.
type Cell struct {
	Contents []rune
	Fallback bool
	Width    int

	overlappedCells []*Cell
	overlappingCell *Cell
}

// Reset clears the cell back to a blank narrow cell. Resetting a base
// detaches and resets every cell it occluded; resetting an occluded cell
// touches only its own fields, leaving the base's bookkeeping to the base.
func (c *Cell) Reset() {
	c.Contents = c.Contents[:0]
	c.Fallback = false
	c.Width = 1

	if c.overlappingCell != nil {
		return
	}
	for _, o := range c.overlappedCells {
		o.overlappingCell = nil
		o.Reset()
	}
	c.overlappedCells = nil
}

// OverlappingCell returns the wide base occluding this cell, or nil.
func (c *Cell) OverlappingCell() *Cell {
	return c.overlappingCell
}

// OverlappedCells returns the cells this base occludes.
func (c *Cell) OverlappedCells() []*Cell {
	return c.overlappedCells
}

// Empty reports whether the cell holds no contents.
func (c *Cell) Empty() bool {
	return len(c.Contents) == 0
}
