// Package grid implements the interaction engine of an editable,
// virtualized spreadsheet surface: cell addressing, selection and focus
// state, keyboard navigation, per-variant cell editing, the clipboard
// protocol, filter operators and row-height/windowing coordination.
//
// The package is renderer-agnostic. A host (a TUI, a web view, a test)
// injects its data layer through Callbacks and its windowing strategy
// through WindowProvider; the engine owns only ephemeral view state.
package grid

import (
	"strconv"
	"strings"
)

// CellPosition identifies one cell in the currently visible, filtered
// and sorted row ordering. Row indices are view-relative: they must be
// re-derived whenever sort or filter changes.
type CellPosition struct {
	Row      int
	ColumnID string
}

// Key returns the "row:columnID" form used in selection sets.
func (p CellPosition) Key() string {
	return strconv.Itoa(p.Row) + ":" + p.ColumnID
}

// ParseKey decodes a "row:columnID" key back into a position.
func ParseKey(key string) (CellPosition, bool) {
	i := strings.IndexByte(key, ':')
	if i <= 0 {
		return CellPosition{}, false
	}
	row, err := strconv.Atoi(key[:i])
	if err != nil || row < 0 {
		return CellPosition{}, false
	}
	return CellPosition{Row: row, ColumnID: key[i+1:]}, true
}

// CellRange is an anchor/extent pair. Start and End are deliberately
// not normalized: Start is where the gesture began and End is where it
// currently extends to, in either direction. Consumers normalize
// through Bounds.
type CellRange struct {
	Start CellPosition
	End   CellPosition
}

// Bounds normalizes the range against the visible column order and
// returns inclusive min/max row and column indices. ok is false when
// either column id is not in cols.
func (r CellRange) Bounds(cols []Column) (minRow, maxRow, minCol, maxCol int, ok bool) {
	c1 := ColumnIndex(cols, r.Start.ColumnID)
	c2 := ColumnIndex(cols, r.End.ColumnID)
	if c1 < 0 || c2 < 0 {
		return 0, 0, 0, 0, false
	}
	minRow, maxRow = r.Start.Row, r.End.Row
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol = c1, c2
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	return minRow, maxRow, minCol, maxCol, true
}

// Single reports whether the range covers exactly one cell.
func (r CellRange) Single() bool {
	return r.Start == r.End
}
