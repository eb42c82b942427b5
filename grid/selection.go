package grid

// State owns the focused cell, the cell being edited and the selected
// set/range for one grid view. All mutation goes through its methods;
// rendering code only reads.
//
// Focus, editing and selection are independent axes: clearing the
// selection does not cancel an edit, and a multi-cell selection still
// has at most one focused cell receiving keyboard input.
type State struct {
	Columns  []Column
	RowCount int

	focused *CellPosition
	editing *CellPosition

	selected  map[string]CellPosition
	selOrder  []string // first-seen key order, drives copy column order
	selRange  *CellRange
	selecting bool

	// set by the editing controller so focus changes route through its
	// commit-or-cancel path before the previous edit is abandoned
	beforeFocus func(next CellPosition)
}

// NewState builds selection state for a view with the given visible
// columns and row count.
func NewState(cols []Column, rowCount int) *State {
	return &State{
		Columns:  cols,
		RowCount: rowCount,
		selected: make(map[string]CellPosition),
	}
}

// SetRowCount updates the view row count after rows are added or
// removed. Focus and selection are clamped back into bounds.
func (s *State) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	s.RowCount = n
	if s.focused != nil {
		p := s.Clamp(*s.focused)
		s.focused = &p
	}
	if s.selRange != nil {
		r := CellRange{Start: s.Clamp(s.selRange.Start), End: s.Clamp(s.selRange.End)}
		s.selRange = &r
		s.materialize()
	}
}

// Clamp snaps a position into the current row/column bounds. Unknown
// column ids snap to the first visible column. Clamping never fails;
// on an empty grid it returns a zero-row position.
func (s *State) Clamp(pos CellPosition) CellPosition {
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= s.RowCount {
		pos.Row = s.RowCount - 1
		if pos.Row < 0 {
			pos.Row = 0
		}
	}
	if len(s.Columns) > 0 && ColumnIndex(s.Columns, pos.ColumnID) < 0 {
		pos.ColumnID = s.Columns[0].ID
	}
	return pos
}

// Focus sets the focused cell. If a different cell is mid-edit, the
// editing controller's commit-or-cancel path runs first.
func (s *State) Focus(pos CellPosition) {
	pos = s.Clamp(pos)
	if s.editing != nil && *s.editing != pos && s.beforeFocus != nil {
		s.beforeFocus(pos)
	}
	p := pos
	s.focused = &p
}

// Blur clears focus. An in-progress edit is flushed first.
func (s *State) Blur() {
	if s.editing != nil && s.beforeFocus != nil {
		s.beforeFocus(CellPosition{Row: -1})
	}
	s.focused = nil
}

// Focused returns the focused cell, if any.
func (s *State) Focused() (CellPosition, bool) {
	if s.focused == nil {
		return CellPosition{}, false
	}
	return *s.focused, true
}

// Editing returns the cell currently in edit mode, if any.
func (s *State) Editing() (CellPosition, bool) {
	if s.editing == nil {
		return CellPosition{}, false
	}
	return *s.editing, true
}

// StartSelection begins a drag-select gesture at pos: the range
// collapses to pos and isSelecting turns on until EndSelection.
func (s *State) StartSelection(pos CellPosition) {
	pos = s.Clamp(pos)
	s.selRange = &CellRange{Start: pos, End: pos}
	s.selecting = true
	s.materialize()
}

// ExtendSelection moves the extent of an in-progress drag to pos and
// rematerializes the selected set. It is a no-op when no drag is in
// progress.
func (s *State) ExtendSelection(pos CellPosition) {
	if !s.selecting || s.selRange == nil {
		return
	}
	s.selRange.End = s.Clamp(pos)
	s.materialize()
}

// EndSelection finishes a drag gesture without altering the selected
// set.
func (s *State) EndSelection() {
	s.selecting = false
}

// IsSelecting reports whether a drag-select gesture is in progress.
func (s *State) IsSelecting() bool {
	return s.selecting
}

// ToggleCell adds or removes a single cell from the selected set
// (modifier-click) without touching the selection range.
func (s *State) ToggleCell(pos CellPosition) {
	pos = s.Clamp(pos)
	key := pos.Key()
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
		for i, k := range s.selOrder {
			if k == key {
				s.selOrder = append(s.selOrder[:i], s.selOrder[i+1:]...)
				break
			}
		}
		return
	}
	s.add(pos)
}

// SelectRange handles shift-click: when extend is true the rectangle
// is rebuilt from the last anchor to pos; otherwise it behaves like
// StartSelection without entering drag mode.
func (s *State) SelectRange(anchor, pos CellPosition, extend bool) {
	anchor = s.Clamp(anchor)
	pos = s.Clamp(pos)
	if extend && s.selRange != nil {
		s.selRange.End = pos
	} else {
		s.selRange = &CellRange{Start: anchor, End: pos}
	}
	s.materialize()
}

// ExtendTo grows the current range to pos, anchoring at the focused
// cell when no range exists yet (shift+arrow navigation).
func (s *State) ExtendTo(pos CellPosition) {
	pos = s.Clamp(pos)
	if s.selRange == nil {
		anchor := pos
		if s.focused != nil {
			anchor = *s.focused
		}
		s.selRange = &CellRange{Start: anchor, End: pos}
	} else {
		s.selRange.End = pos
	}
	s.materialize()
}

// CollapseTo replaces any multi-cell selection with the single cell at
// pos (plain directional navigation).
func (s *State) CollapseTo(pos CellPosition) {
	pos = s.Clamp(pos)
	s.selRange = &CellRange{Start: pos, End: pos}
	s.materialize()
}

// SelectAll selects the full rectangle of the view.
func (s *State) SelectAll() {
	if s.RowCount == 0 || len(s.Columns) == 0 {
		return
	}
	s.selRange = &CellRange{
		Start: CellPosition{Row: 0, ColumnID: s.Columns[0].ID},
		End:   CellPosition{Row: s.RowCount - 1, ColumnID: s.Columns[len(s.Columns)-1].ID},
	}
	s.materialize()
}

// ClearSelection empties the selected set and nulls the range. An
// in-progress edit is unaffected.
func (s *State) ClearSelection() {
	s.selected = make(map[string]CellPosition)
	s.selOrder = s.selOrder[:0]
	s.selRange = nil
}

// IsSelected reports whether pos is in the selected set.
func (s *State) IsSelected(pos CellPosition) bool {
	_, ok := s.selected[pos.Key()]
	return ok
}

// HasSelection reports whether any cell is selected.
func (s *State) HasSelection() bool {
	return len(s.selected) > 0
}

// SelectionSize returns the number of selected cells.
func (s *State) SelectionSize() int {
	return len(s.selected)
}

// SelectedCells returns the selected cells in first-seen order.
func (s *State) SelectedCells() []CellPosition {
	out := make([]CellPosition, 0, len(s.selOrder))
	for _, k := range s.selOrder {
		if p, ok := s.selected[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SelectionRange returns the anchor/extent pair, if any.
func (s *State) SelectionRange() (CellRange, bool) {
	if s.selRange == nil {
		return CellRange{}, false
	}
	return *s.selRange, true
}

// materialize recomputes the selected set as the full inclusive
// rectangle between the range's start and end. It runs on every range
// mutation so the set and the range never diverge.
func (s *State) materialize() {
	s.selected = make(map[string]CellPosition)
	s.selOrder = s.selOrder[:0]
	if s.selRange == nil {
		return
	}
	minRow, maxRow, minCol, maxCol, ok := s.selRange.Bounds(s.Columns)
	if !ok {
		return
	}
	for row := minRow; row <= maxRow; row++ {
		for ci := minCol; ci <= maxCol; ci++ {
			s.add(CellPosition{Row: row, ColumnID: s.Columns[ci].ID})
		}
	}
}

func (s *State) add(pos CellPosition) {
	key := pos.Key()
	if _, ok := s.selected[key]; ok {
		return
	}
	s.selected[key] = pos
	s.selOrder = append(s.selOrder, key)
}

func (s *State) setEditing(pos *CellPosition) {
	s.editing = pos
}
