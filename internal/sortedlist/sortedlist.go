// Package sortedlist implements the cursor-bearing, always-sorted
// collection used for both the filter and track columns of the
// library browser.
package sortedlist

// LessFunc orders two entries of type T.
type LessFunc[T any] func(a, b T) bool

// SelectableFunc reports whether an entry may hold the cursor.
type SelectableFunc[T any] func(v T) bool

// ScrollPad is the number of rows kept visible above/below the cursor
// when it is not pinned to an edge of the list.
const ScrollPad = 2

// List is a generic, always-sorted, cursor-bearing collection.
// Insertion preserves sort order; List may run in unique mode (add
// ignores an equal-valued entry already present) or multiset mode
// (every add inserts, used for the track column which includes
// repeated album headers).
type List[T comparable] struct {
	entries    []T
	cursor     int // index into entries, or -1 if nothing is selectable
	anchor     int // first visible row
	less       LessFunc[T]
	selectable SelectableFunc[T]
	unique     bool
}

// New creates an empty SortedList. less defines sort order; selectable
// reports whether a value may be the cursor (pass a func that always
// returns true if every entry is selectable); unique suppresses
// duplicate inserts.
func New[T comparable](less LessFunc[T], selectable SelectableFunc[T], unique bool) *List[T] {
	return &List[T]{
		cursor:     -1,
		less:       less,
		selectable: selectable,
		unique:     unique,
	}
}

// Len returns the number of entries.
func (l *List[T]) Len() int { return len(l.entries) }

// Entries returns the live backing slice; callers must not mutate it.
func (l *List[T]) Entries() []T { return l.entries }

// Cursor returns the selected entry and true, or the zero value and
// false if nothing is selected.
func (l *List[T]) Cursor() (T, bool) {
	var zero T
	if l.cursor < 0 || l.cursor >= len(l.entries) {
		return zero, false
	}
	return l.entries[l.cursor], true
}

// CursorIndex returns the raw cursor index, or -1.
func (l *List[T]) CursorIndex() int { return l.cursor }

func (l *List[T]) searchInsertIndex(v T) int {
	lo, hi := 0, len(l.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if l.less(l.entries[mid], v) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Add inserts v at its sorted position. In unique mode, an entry equal
// to v (by ==) already present is a no-op. Returns the index the
// value was inserted at, or -1 if it was a duplicate that was
// dropped.
func (l *List[T]) Add(v T) int {
	idx := l.searchInsertIndex(v)

	if l.unique {
		if idx < len(l.entries) && l.entries[idx] == v {
			return -1
		}
		if idx > 0 && l.entries[idx-1] == v {
			return -1
		}
	}

	firstSelectableBefore := l.firstSelectableIndex()

	l.entries = append(l.entries, v)
	copy(l.entries[idx+1:], l.entries[idx:len(l.entries)-1])
	l.entries[idx] = v

	firstSelectableAfter := l.firstSelectableIndex()

	switch {
	case l.cursor < 0 && firstSelectableAfter >= 0:
		// Insertion created the first selectable row: snap to it.
		l.cursor = firstSelectableAfter
		l.anchor = 0
	case idx <= l.cursor && firstSelectableBefore == firstSelectableAfter:
		// Same entity is still selected; shift to preserve visual position.
		l.cursor++
		l.anchor++
	case idx <= l.cursor:
		l.cursor++
	}

	return idx
}

func (l *List[T]) firstSelectableIndex() int {
	for i, v := range l.entries {
		if l.selectable(v) {
			return i
		}
	}
	return -1
}

func (l *List[T]) lastSelectableIndex() int {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.selectable(l.entries[i]) {
			return i
		}
	}
	return -1
}

// ReplaceAll replaces the list wholesale with entries (which need not
// be pre-sorted) and resets the cursor to the first selectable entry.
func (l *List[T]) ReplaceAll(entries []T) {
	l.entries = append([]T(nil), entries...)
	sortInPlace(l.entries, l.less)
	if l.unique {
		l.entries = dedup(l.entries)
	}
	l.anchor = 0
	l.cursor = l.firstSelectableIndex()
}

func sortInPlace[T any](s []T, less LessFunc[T]) {
	// insertion sort is adequate: lists are small (filters/library
	// pages) and ReplaceAll is not a hot path relative to Add.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func dedup[T comparable](s []T) []T {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// SelectPrev moves the cursor back over n selectable entries,
// skipping non-selectable rows, saturating at the start.
func (l *List[T]) SelectPrev(n int) {
	if l.cursor < 0 {
		return
	}
	i := l.cursor
	for ; n > 0 && i > 0; i-- {
		if l.selectable(l.entries[i-1]) {
			n--
		}
		if n == 0 {
			i--
			break
		}
	}
	for i > 0 && !l.selectable(l.entries[i]) {
		i--
	}
	if !l.selectable(l.entries[i]) {
		// saturated into a leading run of non-selectable rows
		i = l.firstSelectableIndex()
		if i < 0 {
			return
		}
	}
	l.cursor = i
}

// SelectNext moves the cursor forward over n selectable entries,
// skipping non-selectable rows, saturating at the end.
func (l *List[T]) SelectNext(n int) {
	if l.cursor < 0 {
		return
	}
	i := l.cursor
	last := len(l.entries) - 1
	for ; n > 0 && i < last; i++ {
		if l.selectable(l.entries[i+1]) {
			n--
		}
		if n == 0 {
			i++
			break
		}
	}
	for i < last && !l.selectable(l.entries[i]) {
		i++
	}
	if !l.selectable(l.entries[i]) {
		i = l.lastSelectableIndex()
		if i < 0 {
			return
		}
	}
	l.cursor = i
}

// SelectStart moves the cursor to the first selectable entry.
func (l *List[T]) SelectStart() {
	l.cursor = l.firstSelectableIndex()
}

// SelectEnd moves the cursor to the last selectable entry.
func (l *List[T]) SelectEnd() {
	l.cursor = l.lastSelectableIndex()
}

// View computes the visible window of height rows and the cursor's
// row offset within that window, updating the scroll anchor according
// to the top/bottom padding policy. height==0 returns an empty window
// without panicking.
func (l *List[T]) View(height int) (window []T, cursorInWindow int) {
	if height <= 0 {
		return nil, -1
	}

	anchorMax := len(l.entries) - height
	if anchorMax < 0 {
		anchorMax = 0
	}

	if l.cursor >= 0 {
		selectedTop := l.anchor + ScrollPad
		selectedBot := l.anchor + height - 1 - ScrollPad
		if l.cursor < selectedTop {
			l.anchor = l.cursor - ScrollPad
			if l.anchor < 0 {
				l.anchor = 0
			}
		} else if l.cursor > selectedBot {
			l.anchor = l.cursor + ScrollPad + 1 - height
			if l.anchor > anchorMax {
				l.anchor = anchorMax
			}
		}
	}
	if l.anchor > anchorMax {
		l.anchor = anchorMax
	}
	if l.anchor < 0 {
		l.anchor = 0
	}

	end := l.anchor + height
	if end > len(l.entries) {
		end = len(l.entries)
	}
	window = l.entries[l.anchor:end]

	cursorInWindow = -1
	if l.cursor >= l.anchor && l.cursor < end {
		cursorInWindow = l.cursor - l.anchor
	}
	return window, cursorInWindow
}
