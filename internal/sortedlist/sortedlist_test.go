package sortedlist

import "testing"

func intLess(a, b int) bool     { return a < b }
func alwaysSelectable(int) bool { return true }

func TestAddKeepsSorted(t *testing.T) {
	l := New(intLess, alwaysSelectable, false)
	for _, v := range []int{5, 1, 3, 2, 4} {
		l.Add(v)
	}
	want := []int{1, 2, 3, 4, 5}
	got := l.Entries()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAddThenReplaceAllMatchesInsertOrder(t *testing.T) {
	vals := []int{9, 2, 7, 2, 4, 1}

	inserted := New(intLess, alwaysSelectable, false)
	for _, v := range vals {
		inserted.Add(v)
	}

	replaced := New(intLess, alwaysSelectable, false)
	replaced.ReplaceAll(vals)

	a, b := inserted.Entries(), replaced.Entries()
	if len(a) != len(b) {
		t.Fatalf("len mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entries[%d]: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestUniqueModeIgnoresDuplicates(t *testing.T) {
	l := New(intLess, alwaysSelectable, true)
	l.Add(1)
	l.Add(1)
	l.Add(2)
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
}

func TestCursorShiftsOnInsertBeforeIt(t *testing.T) {
	l := New(intLess, alwaysSelectable, false)
	l.Add(1)
	l.Add(3)
	l.Add(5)
	l.SelectNext(1) // cursor now on the "3" (index 1)
	if v, _ := l.Cursor(); v != 3 {
		t.Fatalf("cursor = %d, want 3", v)
	}
	l.Add(2) // inserts before "3", cursor should shift to keep selection on 3
	if v, _ := l.Cursor(); v != 3 {
		t.Fatalf("cursor after insert = %d, want 3", v)
	}
}

func TestViewHeightZeroIsEmpty(t *testing.T) {
	l := New(intLess, alwaysSelectable, false)
	l.Add(1)
	window, cur := l.View(0)
	if window != nil || cur != -1 {
		t.Fatalf("View(0) = %v, %d, want nil, -1", window, cur)
	}
}

func TestSelectPrevNextSaturateAtEnds(t *testing.T) {
	l := New(intLess, alwaysSelectable, false)
	for i := 0; i < 5; i++ {
		l.Add(i)
	}
	l.SelectStart()
	l.SelectPrev(10)
	if v, _ := l.Cursor(); v != 0 {
		t.Fatalf("cursor = %d, want 0", v)
	}
	l.SelectNext(100)
	if v, _ := l.Cursor(); v != 4 {
		t.Fatalf("cursor = %d, want 4", v)
	}
}

func notFirst(v int) bool { return v != 0 }

func TestNonSelectableNeverHoldsCursor(t *testing.T) {
	l := New(intLess, notFirst, false)
	l.ReplaceAll([]int{0, 1, 2})
	if v, ok := l.Cursor(); !ok || v != 1 {
		t.Fatalf("cursor = %v, %v, want 1, true", v, ok)
	}
}

func TestSelectPrevNeverLandsOnLeadingNonSelectable(t *testing.T) {
	l := New(intLess, notFirst, false)
	l.ReplaceAll([]int{0, 1, 2})
	l.SelectNext(1) // cursor on 2
	l.SelectPrev(5) // saturate toward the start; 0 is non-selectable
	if v, ok := l.Cursor(); !ok || v != 1 {
		t.Fatalf("cursor = %v, %v, want 1 (first selectable)", v, ok)
	}
}

func TestScrollPadding(t *testing.T) {
	l := New(intLess, alwaysSelectable, false)
	vals := make([]int, 30)
	for i := range vals {
		vals[i] = i
	}
	l.ReplaceAll(vals)

	const height = 10
	anchorSeen := -1
	for i := 0; i < 10; i++ {
		l.SelectNext(1)
		window, cur := l.View(height)
		if len(window) != height {
			t.Fatalf("step %d: window len = %d, want %d", i, len(window), height)
		}
		if cur < 0 {
			t.Fatalf("step %d: cursor not in window", i)
		}
		anchorSeen = window[0]
	}
	if anchorSeen > 20 {
		t.Fatalf("anchor exceeded max %d: got %d", 20, anchorSeen)
	}
}
