package terminal

import "testing"

func TestWideGlyphClaimsOverlap(t *testing.T) {
	fb := NewFramebuffer(80, 24)

	fb.DS.MoveCol(3, false, false)
	fb.PlaceGrapheme("漢")

	base := fb.GetCell(0, 3)
	occluded := fb.GetCell(0, 4)

	if base.Width != 2 {
		t.Fatalf("expected width 2, got %d", base.Width)
	}
	if occluded.OverlappingCell() != base {
		t.Error("expected (0,4) to back-link to the wide base at (0,3)")
	}
	if len(base.OverlappedCells()) != 1 || base.OverlappedCells()[0] != occluded {
		t.Errorf("expected the base to list exactly (0,4), got %d cells", len(base.OverlappedCells()))
	}

	// No cell may be both a base and occluded.
	if occluded.OverlappingCell() != nil && len(occluded.OverlappedCells()) != 0 {
		t.Error("occluded cell must not own an overlap list")
	}
}

func TestResetDetachesOverlap(t *testing.T) {
	fb := NewFramebuffer(80, 24)

	fb.DS.MoveCol(3, false, false)
	fb.PlaceGrapheme("漢")

	// Overwrite the base with a narrow glyph.
	fb.DS.MoveCol(3, false, false)
	fb.PlaceGrapheme("x")

	base := fb.GetCell(0, 3)
	neighbour := fb.GetCell(0, 4)

	if base.Width != 1 {
		t.Errorf("expected width 1 after overwrite, got %d", base.Width)
	}
	if len(base.OverlappedCells()) != 0 {
		t.Errorf("expected an empty overlap list, got %d", len(base.OverlappedCells()))
	}
	if neighbour.OverlappingCell() != nil {
		t.Error("expected the back-link to be cleared")
	}
	if !neighbour.Empty() {
		t.Error("expected the detached cell to be reset blank")
	}
}

func TestResetOfOccludedCellLeavesOwnFieldsOnly(t *testing.T) {
	fb := NewFramebuffer(80, 24)

	fb.DS.MoveCol(3, false, false)
	fb.PlaceGrapheme("漢")

	occluded := fb.GetCell(0, 4)
	occluded.Reset()

	if occluded.Width != 1 {
		t.Errorf("expected width 1, got %d", occluded.Width)
	}
	// The base still considers the cell claimed; only a reset of the base
	// clears the relation.
	base := fb.GetCell(0, 3)
	if len(base.OverlappedCells()) != 1 {
		t.Errorf("expected the base's list untouched, got %d", len(base.OverlappedCells()))
	}
}

func TestWideGlyphAtRightEdge(t *testing.T) {
	fb := NewFramebuffer(80, 24)

	fb.DS.MoveCol(79, false, false)
	fb.PlaceGrapheme("漢")

	base := fb.GetCell(0, 79)
	if len(base.OverlappedCells()) != 0 {
		t.Errorf("expected no occlusion past the edge, got %d", len(base.OverlappedCells()))
	}
}
