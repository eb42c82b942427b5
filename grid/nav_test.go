package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationClamping(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 5)
	nav := &Navigator{PageSize: 3}

	origin := CellPosition{Row: 0, ColumnID: "title"}
	assert.Equal(t, origin, nav.Target(st, origin, MoveUp))
	assert.Equal(t, origin, nav.Target(st, origin, MoveLeft))

	last := CellPosition{Row: 4, ColumnID: "due"}
	assert.Equal(t, last, nav.Target(st, last, MoveDown))
	assert.Equal(t, last, nav.Target(st, last, MoveRight))
}

func TestNavigationBasicMoves(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 10)
	nav := &Navigator{PageSize: 4}
	from := CellPosition{Row: 5, ColumnID: "amount"}

	assert.Equal(t, CellPosition{Row: 4, ColumnID: "amount"}, nav.Target(st, from, MoveUp))
	assert.Equal(t, CellPosition{Row: 6, ColumnID: "amount"}, nav.Target(st, from, MoveDown))
	assert.Equal(t, CellPosition{Row: 5, ColumnID: "notes"}, nav.Target(st, from, MoveLeft))
	assert.Equal(t, CellPosition{Row: 5, ColumnID: "status"}, nav.Target(st, from, MoveRight))
	assert.Equal(t, CellPosition{Row: 5, ColumnID: "title"}, nav.Target(st, from, MoveRowStart))
	assert.Equal(t, CellPosition{Row: 5, ColumnID: "due"}, nav.Target(st, from, MoveRowEnd))
	assert.Equal(t, CellPosition{Row: 0, ColumnID: "title"}, nav.Target(st, from, MoveDocStart))
	assert.Equal(t, CellPosition{Row: 9, ColumnID: "due"}, nav.Target(st, from, MoveDocEnd))
	assert.Equal(t, CellPosition{Row: 1, ColumnID: "amount"}, nav.Target(st, from, MovePageUp))
	assert.Equal(t, CellPosition{Row: 9, ColumnID: "amount"}, nav.Target(st, from, MovePageDown))
}

func TestTabWrapsAcrossRows(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 3)
	nav := &Navigator{}

	// tab from the last column wraps to the next row's first column
	got := nav.Target(st, CellPosition{Row: 0, ColumnID: "due"}, MoveNextCell)
	assert.Equal(t, CellPosition{Row: 1, ColumnID: "title"}, got)

	// shift+tab from the first column wraps to the previous row's last
	got = nav.Target(st, CellPosition{Row: 1, ColumnID: "title"}, MovePrevCell)
	assert.Equal(t, CellPosition{Row: 0, ColumnID: "due"}, got)

	// at the grid corners the wrap clamps instead
	corner := CellPosition{Row: 2, ColumnID: "due"}
	assert.Equal(t, corner, nav.Target(st, corner, MoveNextCell))
	first := CellPosition{Row: 0, ColumnID: "title"}
	assert.Equal(t, first, nav.Target(st, first, MovePrevCell))

	// plain right never wraps
	assert.Equal(t, CellPosition{Row: 0, ColumnID: "due"},
		nav.Target(st, CellPosition{Row: 0, ColumnID: "due"}, MoveRight))
}

func TestMoveCollapsesSelection(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 10)
	nav := &Navigator{}

	st.Focus(CellPosition{Row: 2, ColumnID: "title"})
	st.SelectRange(CellPosition{Row: 2, ColumnID: "title"}, CellPosition{Row: 5, ColumnID: "amount"}, false)
	require.Equal(t, 4*3, st.SelectionSize())

	nav.Move(st, MoveDown, false)
	f, ok := st.Focused()
	require.True(t, ok)
	assert.Equal(t, CellPosition{Row: 3, ColumnID: "title"}, f)
	assert.Equal(t, 1, st.SelectionSize())
	assert.True(t, st.IsSelected(f))
}

func TestMoveShiftExtends(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 10)
	nav := &Navigator{}

	anchor := CellPosition{Row: 2, ColumnID: "title"}
	st.Focus(anchor)
	st.CollapseTo(anchor)

	nav.Move(st, MoveDown, true)
	nav.Move(st, MoveRight, true)

	// focus stays at the anchor while the range grows
	f, _ := st.Focused()
	assert.Equal(t, anchor, f)
	r, ok := st.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, anchor, r.Start)
	assert.Equal(t, 2*2, st.SelectionSize())
}

func TestMoveScrollsTargetIntoView(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 100)
	win := NewFixedWindow(1, 10, 100)
	nav := &Navigator{Window: win}

	st.Focus(CellPosition{Row: 0, ColumnID: "title"})
	nav.Move(st, MovePageDown, false)

	f, _ := st.Focused()
	assert.Equal(t, 10, f.Row)
	assert.True(t, win.IsMounted(10), "target row must be scrolled into view")
}

func TestMoveWithoutFocusStartsAtOrigin(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 5)
	nav := &Navigator{}

	nav.Move(st, MoveDown, false)
	f, ok := st.Focused()
	require.True(t, ok)
	assert.Equal(t, CellPosition{Row: 1, ColumnID: "title"}, f)
}

func TestShiftExtendOnRangeKeepsAnchorExtent(t *testing.T) {
	// extending with shift after a range exists moves only the extent
	cols := testColumns()
	st := NewState(cols, 10)
	nav := &Navigator{}

	st.Focus(CellPosition{Row: 4, ColumnID: "notes"})
	st.CollapseTo(CellPosition{Row: 4, ColumnID: "notes"})
	nav.Move(st, MoveUp, true)
	nav.Move(st, MoveUp, true)

	r, ok := st.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, 4, r.Start.Row)
	assert.Equal(t, 2, r.End.Row)
	assert.Equal(t, 3, st.SelectionSize())
}
