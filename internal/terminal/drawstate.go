package terminal

// DrawState carries the cursor and drawing modes the emulator layer
// parameterises the grid with. The cursor always stays inside
// [LimitTop, LimitBottom] x [0, width); moves that would leave it are
// snapped back to the border.
type DrawState struct {
	width  int
	height int

	cursorCol int
	cursorRow int

	// Combining marks are inserted at the anchor recorded by the last
	// grapheme, not at the cursor.
	combiningCharCol int
	combiningCharRow int

	tabs []bool

	scrollingRegionTopRow    int
	scrollingRegionBottomRow int

	NextPrintWillWrap bool
	OriginMode        bool
	AutoWrapMode      bool
}

// NewDrawState returns the initial state: cursor at the origin, tab stops on
// every eighth column, scrolling region covering the full height, auto-wrap
// on.
func NewDrawState(width, height int) *DrawState {
	ds := &DrawState{
		width:                    width,
		height:                   height,
		tabs:                     make([]bool, width),
		scrollingRegionBottomRow: height - 1,
		AutoWrapMode:             true,
	}
	for i := range ds.tabs {
		ds.tabs[i] = i%8 == 0
	}
	return ds
}

// Width returns the grid width in columns.
func (ds *DrawState) Width() int { return ds.width }

// Height returns the grid height in rows.
func (ds *DrawState) Height() int { return ds.height }

// CursorCol returns the cursor column.
func (ds *DrawState) CursorCol() int { return ds.cursorCol }

// CursorRow returns the cursor row.
func (ds *DrawState) CursorRow() int { return ds.cursorRow }

// CombiningCharCol returns the combining-mark anchor column.
func (ds *DrawState) CombiningCharCol() int { return ds.combiningCharCol }

// CombiningCharRow returns the combining-mark anchor row.
func (ds *DrawState) CombiningCharRow() int { return ds.combiningCharRow }

// NewGrapheme records the cursor as the anchor for subsequent combining
// marks.
func (ds *DrawState) NewGrapheme() {
	ds.combiningCharCol = ds.cursorCol
	ds.combiningCharRow = ds.cursorRow
}

func (ds *DrawState) snapCursorToBorder() {
	if ds.cursorRow < ds.LimitTop() {
		ds.cursorRow = ds.LimitTop()
	}
	if ds.cursorRow > ds.LimitBottom() {
		ds.cursorRow = ds.LimitBottom()
	}
	if ds.cursorCol < 0 {
		ds.cursorCol = 0
	}
	if ds.cursorCol >= ds.width {
		ds.cursorCol = ds.width - 1
	}
}

// MoveRow moves the cursor to row n, or by n rows when relative, snapping to
// the vertical limits. Any pending wrap is cancelled.
func (ds *DrawState) MoveRow(n int, relative bool) {
	if relative {
		ds.cursorRow += n
	} else {
		ds.cursorRow = n
	}

	ds.snapCursorToBorder()
	ds.NewGrapheme()
	ds.NextPrintWillWrap = false
}

// MoveCol moves the cursor to column n, or by n columns when relative.
// Implicit moves are the ones printing generates: they record the grapheme
// anchor before moving and arm the wrap flag when the cursor runs off the
// right edge. Explicit moves re-anchor after the move and cancel any pending
// wrap.
func (ds *DrawState) MoveCol(n int, relative, implicit bool) {
	if implicit {
		ds.NewGrapheme()
	}

	if relative {
		ds.cursorCol += n
	} else {
		ds.cursorCol = n
	}

	if implicit && ds.cursorCol >= ds.width {
		ds.NextPrintWillWrap = true
	}

	ds.snapCursorToBorder()
	if !implicit {
		ds.NewGrapheme()
		ds.NextPrintWillWrap = false
	}
}

// SetTab marks a tab stop at the cursor column.
func (ds *DrawState) SetTab() {
	ds.tabs[ds.cursorCol] = true
}

// ClearTab clears the tab stop at col.
func (ds *DrawState) ClearTab(col int) {
	ds.tabs[col] = false
}

// NextTab returns the first tab stop right of the cursor, or -1.
func (ds *DrawState) NextTab() int {
	for i := ds.cursorCol + 1; i < ds.width; i++ {
		if ds.tabs[i] {
			return i
		}
	}
	return -1
}

// SetScrollingRegion sets the vertical scrolling bounds, clamped to the
// grid; an inverted region collapses to a single row. In origin mode the
// cursor is snapped into the new region and the combining anchor reset.
func (ds *DrawState) SetScrollingRegion(top, bottom int) {
	if ds.height < 1 {
		return
	}

	ds.scrollingRegionTopRow = top
	ds.scrollingRegionBottomRow = bottom

	if ds.scrollingRegionTopRow < 0 {
		ds.scrollingRegionTopRow = 0
	}
	if ds.scrollingRegionTopRow >= ds.height {
		ds.scrollingRegionTopRow = ds.height - 1
	}
	if ds.scrollingRegionBottomRow >= ds.height {
		ds.scrollingRegionBottomRow = ds.height - 1
	}
	if ds.scrollingRegionBottomRow < ds.scrollingRegionTopRow {
		ds.scrollingRegionBottomRow = ds.scrollingRegionTopRow
	}

	if ds.OriginMode {
		ds.snapCursorToBorder()
		ds.NewGrapheme()
	}
}

// ScrollingRegionTopRow returns the top of the scrolling region.
func (ds *DrawState) ScrollingRegionTopRow() int { return ds.scrollingRegionTopRow }

// ScrollingRegionBottomRow returns the bottom of the scrolling region.
func (ds *DrawState) ScrollingRegionBottomRow() int { return ds.scrollingRegionBottomRow }

// LimitTop returns the upper cursor bound: the scrolling region top in
// origin mode, the first row otherwise.
func (ds *DrawState) LimitTop() int {
	if ds.OriginMode {
		return ds.scrollingRegionTopRow
	}
	return 0
}

// LimitBottom returns the lower cursor bound: the scrolling region bottom in
// origin mode, the last row otherwise.
func (ds *DrawState) LimitBottom() int {
	if ds.OriginMode {
		return ds.scrollingRegionBottomRow
	}
	return ds.height - 1
}
