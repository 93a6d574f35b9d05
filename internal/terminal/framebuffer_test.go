package terminal

import "testing"

// rowText renders a row's base contents for comparison.
func rowText(fb *Framebuffer, row int) string {
	var s []rune
	for i := range fb.Row(row).Cells {
		cell := &fb.Row(row).Cells[i]
		if cell.OverlappingCell() != nil {
			continue
		}
		if cell.Empty() {
			s = append(s, '.')
		} else {
			s = append(s, cell.Contents...)
		}
	}
	return string(s)
}

func fillRows(fb *Framebuffer, labels ...string) {
	for i, label := range labels {
		fb.DS.MoveRow(i, false)
		fb.DS.MoveCol(0, false, false)
		fb.PlaceString(label)
	}
}

func TestScrollUpConservesRows(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fillRows(fb, "a", "b", "c", "d")
	fb.DS.MoveRow(3, false)

	fb.Scroll(2)

	want := []string{"c...", "d...", "....", "...."}
	for i, w := range want {
		if got := rowText(fb, i); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}
	if fb.DS.CursorRow() != 1 {
		t.Errorf("expected cursor to follow its line to row 1, got %d", fb.DS.CursorRow())
	}
}

func TestScrollDownConservesRows(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fillRows(fb, "a", "b", "c", "d")
	fb.DS.MoveRow(0, false)

	fb.Scroll(-1)

	want := []string{"....", "a...", "b...", "c..."}
	for i, w := range want {
		if got := rowText(fb, i); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}
	if fb.DS.CursorRow() != 1 {
		t.Errorf("expected cursor moved down to row 1, got %d", fb.DS.CursorRow())
	}
}

func TestScrollRespectsRegionInOriginMode(t *testing.T) {
	fb := NewFramebuffer(4, 5)
	fillRows(fb, "a", "b", "c", "d", "e")
	fb.DS.OriginMode = true
	fb.DS.SetScrollingRegion(1, 3)
	fb.DS.MoveRow(3, false)

	fb.Scroll(1)

	want := []string{"a...", "c...", "d...", "....", "e..."}
	for i, w := range want {
		if got := rowText(fb, i); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}
	if fb.DS.CursorRow() != 2 {
		t.Errorf("expected cursor at row 2, got %d", fb.DS.CursorRow())
	}
}

func TestMoveRowsAutoscroll(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fillRows(fb, "a", "b", "c")
	fb.DS.MoveRow(2, false)

	fb.MoveRowsAutoscroll(2)

	want := []string{"c...", "....", "...."}
	for i, w := range want {
		if got := rowText(fb, i); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}
	if fb.DS.CursorRow() != 2 {
		t.Errorf("expected cursor at the bottom, got %d", fb.DS.CursorRow())
	}
}

func TestMoveRowsAutoscrollWithinRegionNoScroll(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fillRows(fb, "a", "b", "c", "d")
	fb.DS.MoveRow(0, false)

	fb.MoveRowsAutoscroll(2)

	if got := rowText(fb, 0); got != "a..." {
		t.Errorf("expected no scroll, row 0 is %q", got)
	}
	if fb.DS.CursorRow() != 2 {
		t.Errorf("expected cursor at row 2, got %d", fb.DS.CursorRow())
	}
}

func TestPlaceGraphemeWraps(t *testing.T) {
	fb := NewFramebuffer(4, 2)

	fb.PlaceString("abcde")

	if got := rowText(fb, 0); got != "abcd" {
		t.Errorf("expected first row abcd, got %q", got)
	}
	if got := rowText(fb, 1); got != "e..." {
		t.Errorf("expected wrap to second row, got %q", got)
	}
	if fb.DS.CursorRow() != 1 || fb.DS.CursorCol() != 1 {
		t.Errorf("expected cursor at (1,1), got (%d,%d)", fb.DS.CursorRow(), fb.DS.CursorCol())
	}
}

func TestPlaceGraphemeNoAutoWrap(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.DS.AutoWrapMode = false

	fb.PlaceString("abcde")

	if got := rowText(fb, 0); got != "abce" {
		t.Errorf("expected the last column overwritten in place, got %q", got)
	}
	if fb.DS.CursorRow() != 0 {
		t.Errorf("expected cursor to stay on row 0, got %d", fb.DS.CursorRow())
	}
}

func TestCombiningMarkJoinsAnchor(t *testing.T) {
	fb := NewFramebuffer(8, 2)

	fb.PlaceGrapheme("e")
	fb.PlaceGrapheme("́") // combining acute

	cell := fb.GetCell(0, 0)
	if len(cell.Contents) != 2 || cell.Contents[0] != 'e' || cell.Contents[1] != 0x0301 {
		t.Errorf("expected the mark appended to the anchor cell, got %v", cell.Contents)
	}
	if fb.DS.CursorCol() != 1 {
		t.Errorf("expected cursor still at column 1, got %d", fb.DS.CursorCol())
	}
}

func TestGraphemesSegmentsClusters(t *testing.T) {
	got := Graphemes("aéi")
	want := []string{"a", "é", "i"}
	if len(got) != len(want) {
		t.Fatalf("expected %d clusters, got %d (%q)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cluster %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGetCellCursorDefaults(t *testing.T) {
	fb := NewFramebuffer(8, 4)
	fb.DS.MoveRow(2, false)
	fb.DS.MoveCol(3, false, false)

	if fb.GetCell(-1, -1) != fb.CursorCell() {
		t.Error("expected (-1,-1) to address the cursor cell")
	}
	if fb.GetCell(-1, 0) != &fb.Row(2).Cells[0] {
		t.Error("expected row default to the cursor row")
	}
}
