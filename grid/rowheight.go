package grid

// RowHeight is the user-selectable density of the grid.
type RowHeight string

const (
	RowHeightShort     RowHeight = "short"
	RowHeightMedium    RowHeight = "medium"
	RowHeightTall      RowHeight = "tall"
	RowHeightExtraTall RowHeight = "extra-tall"
)

// Pixels returns the fixed row height in pixels. Unknown values fall
// back to short.
func (h RowHeight) Pixels() int {
	switch h {
	case RowHeightMedium:
		return 56
	case RowHeightTall:
		return 76
	case RowHeightExtraTall:
		return 96
	default:
		return 36
	}
}

// Lines returns how many text lines a row of this height can show,
// used by truncation in multi-value and long-text cells.
func (h RowHeight) Lines() int {
	switch h {
	case RowHeightMedium:
		return 2
	case RowHeightTall:
		return 3
	case RowHeightExtraTall:
		return 4
	default:
		return 1
	}
}

// WindowProvider is the engine's view of the external windowing
// renderer. The provider alone decides which rows are mounted; the
// engine only queries it and asks it to bring rows into view.
type WindowProvider interface {
	// VisibleRange returns the inclusive [start, end] row indices
	// mounted at the given scroll offset.
	VisibleRange(scrollOffset int) (start, end int)

	// ScrollToIndex adjusts the provider's offset so row i is visible.
	ScrollToIndex(i int)

	// Measure records the rendered size of one row, e.g. after the row
	// height setting changes.
	Measure(index, size int)

	// IsMounted reports whether row i is currently rendered.
	IsMounted(i int) bool
}

// FixedWindow is the simple fixed-row-height WindowProvider strategy:
// every row has the same size, so the visible range is plain division.
// Size units are whatever the host renders in (pixels, terminal
// lines); the window only needs them to be consistent.
type FixedWindow struct {
	rowSize  int
	viewSize int
	rowCount int
	offset   int
}

// NewFixedWindow builds a window over rowCount rows of rowSize each,
// with viewSize units visible at once.
func NewFixedWindow(rowSize, viewSize, rowCount int) *FixedWindow {
	if rowSize < 1 {
		rowSize = 1
	}
	return &FixedWindow{rowSize: rowSize, viewSize: viewSize, rowCount: rowCount}
}

// SetRowCount updates the total row count and clamps the offset.
func (w *FixedWindow) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	w.rowCount = n
	w.clampOffset()
}

// SetViewSize updates the visible extent (e.g. on window resize).
func (w *FixedWindow) SetViewSize(size int) {
	w.viewSize = size
	w.clampOffset()
}

// Offset returns the current scroll offset in size units.
func (w *FixedWindow) Offset() int {
	return w.offset
}

// VisibleCount returns how many whole rows fit in the viewport.
func (w *FixedWindow) VisibleCount() int {
	n := w.viewSize / w.rowSize
	if n < 1 {
		n = 1
	}
	return n
}

// VisibleRange implements WindowProvider.
func (w *FixedWindow) VisibleRange(scrollOffset int) (int, int) {
	if w.rowCount == 0 {
		return 0, -1
	}
	start := scrollOffset / w.rowSize
	if start < 0 {
		start = 0
	}
	end := start + w.VisibleCount() - 1
	if end >= w.rowCount {
		end = w.rowCount - 1
	}
	if start > end {
		start = end
	}
	return start, end
}

// ScrollToIndex implements WindowProvider: the offset moves the
// minimal amount that brings row i fully into view.
func (w *FixedWindow) ScrollToIndex(i int) {
	if i < 0 {
		i = 0
	}
	if w.rowCount > 0 && i >= w.rowCount {
		i = w.rowCount - 1
	}
	top := i * w.rowSize
	bottom := top + w.rowSize
	if top < w.offset {
		w.offset = top
	} else if bottom > w.offset+w.viewSize {
		w.offset = bottom - w.viewSize
	}
	w.clampOffset()
}

// Measure implements WindowProvider. All rows share one size, so any
// measurement re-sizes every row and the offset is rescaled to keep
// roughly the same first visible row.
func (w *FixedWindow) Measure(index, size int) {
	if size < 1 || size == w.rowSize {
		return
	}
	first := w.offset / w.rowSize
	w.rowSize = size
	w.offset = first * size
	w.clampOffset()
}

// IsMounted implements WindowProvider.
func (w *FixedWindow) IsMounted(i int) bool {
	start, end := w.VisibleRange(w.offset)
	return i >= start && i <= end
}

func (w *FixedWindow) clampOffset() {
	max := w.rowCount*w.rowSize - w.viewSize
	if max < 0 {
		max = 0
	}
	if w.offset > max {
		w.offset = max
	}
	if w.offset < 0 {
		w.offset = 0
	}
}
