package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeMaterialization(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 10)

	st.StartSelection(CellPosition{Row: 2, ColumnID: "amount"})
	st.ExtendSelection(CellPosition{Row: 5, ColumnID: "title"})

	r, ok := st.SelectionRange()
	require.True(t, ok)
	// start/end keep gesture order, unnormalized
	assert.Equal(t, CellPosition{Row: 2, ColumnID: "amount"}, r.Start)
	assert.Equal(t, CellPosition{Row: 5, ColumnID: "title"}, r.End)

	// materialized set is the full rectangle regardless of direction:
	// rows 2..5 x columns title..amount (indices 0..2)
	assert.Equal(t, 4*3, st.SelectionSize())
	for row := 2; row <= 5; row++ {
		for _, id := range []string{"title", "notes", "amount"} {
			assert.True(t, st.IsSelected(CellPosition{Row: row, ColumnID: id}),
				"expected (%d,%s) selected", row, id)
		}
	}
	assert.False(t, st.IsSelected(CellPosition{Row: 1, ColumnID: "title"}))
	assert.False(t, st.IsSelected(CellPosition{Row: 2, ColumnID: "status"}))
}

func TestExtendSelectionRequiresDrag(t *testing.T) {
	st := NewState(testColumns(), 5)
	st.StartSelection(CellPosition{Row: 0, ColumnID: "title"})
	st.EndSelection()

	// drag over: extension is ignored, set untouched
	st.ExtendSelection(CellPosition{Row: 4, ColumnID: "due"})
	assert.Equal(t, 1, st.SelectionSize())
	assert.False(t, st.IsSelecting())
}

func TestSelectionClamping(t *testing.T) {
	st := NewState(testColumns(), 3)

	st.StartSelection(CellPosition{Row: 99, ColumnID: "nope"})
	r, ok := st.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, CellPosition{Row: 2, ColumnID: "title"}, r.Start)

	st.ExtendSelection(CellPosition{Row: -4, ColumnID: "due"})
	assert.Equal(t, 3*7, st.SelectionSize())
}

func TestToggleCellLeavesRangeAlone(t *testing.T) {
	st := NewState(testColumns(), 5)
	st.StartSelection(CellPosition{Row: 0, ColumnID: "title"})
	st.ExtendSelection(CellPosition{Row: 1, ColumnID: "notes"})
	st.EndSelection()
	require.Equal(t, 4, st.SelectionSize())

	extra := CellPosition{Row: 4, ColumnID: "due"}
	st.ToggleCell(extra)
	assert.True(t, st.IsSelected(extra))
	assert.Equal(t, 5, st.SelectionSize())

	r, ok := st.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, 0, r.Start.Row)
	assert.Equal(t, 1, r.End.Row)

	st.ToggleCell(extra)
	assert.False(t, st.IsSelected(extra))
	assert.Equal(t, 4, st.SelectionSize())
}

func TestSelectRangeShiftClick(t *testing.T) {
	st := NewState(testColumns(), 10)
	anchor := CellPosition{Row: 1, ColumnID: "title"}

	st.SelectRange(anchor, CellPosition{Row: 3, ColumnID: "notes"}, false)
	assert.Equal(t, 3*2, st.SelectionSize())

	// extend rebuilds from the existing anchor
	st.SelectRange(anchor, CellPosition{Row: 6, ColumnID: "amount"}, true)
	assert.Equal(t, 6*3, st.SelectionSize())
	r, _ := st.SelectionRange()
	assert.Equal(t, anchor, r.Start)
}

func TestClearSelectionKeepsEdit(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 5)
	data := newFakeData(cols, 5)
	ed := NewEditor(st, data.callbacks(cols), data.value, 0)

	pos := CellPosition{Row: 2, ColumnID: "title"}
	st.StartSelection(pos)
	ed.Begin(pos)
	_, editing := st.Editing()
	require.True(t, editing)

	st.ClearSelection()
	_, editing = st.Editing()
	assert.True(t, editing, "clearing selection must not cancel the edit")
	assert.False(t, st.HasSelection())
	_, hasRange := st.SelectionRange()
	assert.False(t, hasRange)
}

func TestSelectAll(t *testing.T) {
	cols := testColumns()
	st := NewState(cols, 4)
	st.SelectAll()
	assert.Equal(t, 4*len(cols), st.SelectionSize())

	empty := NewState(cols, 0)
	empty.SelectAll()
	assert.Equal(t, 0, empty.SelectionSize())
}

func TestSetRowCountClampsSelection(t *testing.T) {
	st := NewState(testColumns(), 10)
	st.Focus(CellPosition{Row: 9, ColumnID: "due"})
	st.StartSelection(CellPosition{Row: 8, ColumnID: "title"})
	st.ExtendSelection(CellPosition{Row: 9, ColumnID: "title"})

	st.SetRowCount(5)
	f, ok := st.Focused()
	require.True(t, ok)
	assert.Equal(t, 4, f.Row)
	r, ok := st.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, 4, r.Start.Row)
	assert.Equal(t, 4, r.End.Row)
	assert.Equal(t, 1, st.SelectionSize())
}

func TestCellKeyRoundTrip(t *testing.T) {
	pos := CellPosition{Row: 12, ColumnID: "a:b"}
	got, ok := ParseKey(pos.Key())
	require.True(t, ok)
	assert.Equal(t, pos, got)

	_, ok = ParseKey("nope")
	assert.False(t, ok)
	_, ok = ParseKey(":title")
	assert.False(t, ok)
}
