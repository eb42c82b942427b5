package grid

// Intent is one keyboard-navigation gesture, independent of the key
// that produced it.
type Intent int

const (
	MoveUp Intent = iota
	MoveDown
	MoveLeft
	MoveRight
	MoveNextCell // Tab: right, wrapping to the next row
	MovePrevCell // Shift+Tab: left, wrapping to the previous row
	MoveRowStart // Home
	MoveRowEnd   // End
	MoveDocStart // Ctrl/Cmd+Home
	MoveDocEnd   // Ctrl/Cmd+End
	MovePageUp
	MovePageDown
)

// Navigator maps navigation intents onto selection state. Window, when
// non-nil, is asked to scroll each target into view before focus
// applies; PageSize is the paging fallback when no window is attached.
type Navigator struct {
	Window   WindowProvider
	PageSize int
}

// Target computes the position an intent leads to from the given cell.
// Out-of-range targets clamp silently: hitting a grid boundary is not
// an error. Plain left/right never wrap across rows; Tab and Shift+Tab
// do.
func (n *Navigator) Target(st *State, from CellPosition, intent Intent) CellPosition {
	from = st.Clamp(from)
	if len(st.Columns) == 0 {
		return from
	}
	col := ColumnIndex(st.Columns, from.ColumnID)
	row := from.Row
	lastRow := st.RowCount - 1
	lastCol := len(st.Columns) - 1

	switch intent {
	case MoveUp:
		row--
	case MoveDown:
		row++
	case MoveLeft:
		if col > 0 {
			col--
		}
	case MoveRight:
		if col < lastCol {
			col++
		}
	case MoveNextCell:
		col++
		if col > lastCol {
			if row < lastRow {
				col = 0
				row++
			} else {
				col = lastCol
			}
		}
	case MovePrevCell:
		col--
		if col < 0 {
			if row > 0 {
				col = lastCol
				row--
			} else {
				col = 0
			}
		}
	case MoveRowStart:
		col = 0
	case MoveRowEnd:
		col = lastCol
	case MoveDocStart:
		row, col = 0, 0
	case MoveDocEnd:
		row, col = lastRow, lastCol
	case MovePageUp:
		row -= n.pageSize()
	case MovePageDown:
		row += n.pageSize()
	}

	if row < 0 {
		row = 0
	}
	if row > lastRow {
		row = lastRow
		if row < 0 {
			row = 0
		}
	}
	return CellPosition{Row: row, ColumnID: st.Columns[col].ID}
}

// Move applies an intent to the focused cell. With extend the current
// selection range grows to the target; without it any multi-cell
// selection collapses to the single target cell. The target is
// scrolled into view before focus moves.
func (n *Navigator) Move(st *State, intent Intent, extend bool) {
	from, ok := st.Focused()
	if !ok {
		if st.RowCount == 0 || len(st.Columns) == 0 {
			return
		}
		from = CellPosition{Row: 0, ColumnID: st.Columns[0].ID}
	}
	if extend {
		// extension steps from the range's extent, not the anchor
		if r, has := st.SelectionRange(); has {
			from = st.Clamp(r.End)
		}
	}
	target := n.Target(st, from, intent)
	if n.Window != nil {
		n.Window.ScrollToIndex(target.Row)
	}
	if extend {
		st.ExtendTo(target)
		return
	}
	st.Focus(target)
	st.CollapseTo(target)
}

func (n *Navigator) pageSize() int {
	if n.Window != nil {
		start, end := n.Window.VisibleRange(windowOffset(n.Window))
		if end >= start {
			return end - start + 1
		}
	}
	if n.PageSize > 0 {
		return n.PageSize
	}
	return 10
}

// windowOffset asks providers that track their own offset for it;
// others page from zero.
func windowOffset(w WindowProvider) int {
	type offsetter interface{ Offset() int }
	if o, ok := w.(offsetter); ok {
		return o.Offset()
	}
	return 0
}
