package grid

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopDispatch queues dispatched closures the way a host event loop
// would; nothing runs until the test drains it on its own goroutine.
type loopDispatch struct {
	mu  sync.Mutex
	fns []func()
}

func (l *loopDispatch) enqueue(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *loopDispatch) drain() {
	l.mu.Lock()
	fns := l.fns
	l.fns = nil
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func newTestEditor(t *testing.T, rows int) (*State, *Editor, *fakeData) {
	t.Helper()
	cols := testColumns()
	st := NewState(cols, rows)
	data := newFakeData(cols, rows)
	ed := NewEditor(st, data.callbacks(cols), data.value, 10*time.Millisecond)
	return st, ed, data
}

func TestSingleActiveEditor(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	a := CellPosition{Row: 1, ColumnID: "title"}
	b := CellPosition{Row: 2, ColumnID: "notes"}

	ed.Begin(a)
	ed.Input("changed A")
	got, _ := st.Editing()
	require.Equal(t, a, got)

	// starting B commits A first; never two cells editing at once
	ed.Begin(b)
	got, _ = st.Editing()
	assert.Equal(t, b, got)
	require.Equal(t, 1, data.totalUpdates())
	assert.Equal(t, "changed A", data.rows[1]["title"])
}

func TestSeededEntryUsesTypedCharacter(t *testing.T) {
	st, ed, _ := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "title"}
	ed.BeginSeeded(pos, "x")
	_, editing := st.Editing()
	require.True(t, editing)
	assert.Equal(t, "x", ed.Buffer(), "buffer seeds from the typed character, not the cell value")
}

func TestSeedingRejectsNonTextVariants(t *testing.T) {
	st, ed, _ := newTestEditor(t, 5)

	ed.BeginSeeded(CellPosition{Row: 0, ColumnID: "status"}, "x")
	_, editing := st.Editing()
	assert.False(t, editing)

	// number cells accept digit seeding
	ed.BeginSeeded(CellPosition{Row: 0, ColumnID: "amount"}, "7")
	_, editing = st.Editing()
	assert.True(t, editing)
	assert.Equal(t, "7", ed.Buffer())
}

func TestNumberBackspaceStartsEmpty(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 3, ColumnID: "amount"}
	ed.BeginEmpty(pos)
	assert.Equal(t, "", ed.Buffer())

	// empty buffer commits as nil
	require.NoError(t, ed.Commit())
	assert.Nil(t, data.rows[3]["amount"])
}

func TestNumberCommitParsesBuffer(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 1, ColumnID: "amount"}
	ed.Begin(pos)
	ed.Input("42.5")
	require.NoError(t, ed.Commit())
	assert.Equal(t, 42.5, data.rows[1]["amount"])
}

func TestNumberCommitClampsToColumnBounds(t *testing.T) {
	lo, hi := 0.0, 100.0
	cols := []Column{
		{ID: "qty", Name: "Qty", Variant: VariantNumber, Min: &lo, Max: &hi},
	}
	st := NewState(cols, 3)
	data := newFakeData(cols, 3)
	ed := NewEditor(st, data.callbacks(cols), data.value, 10*time.Millisecond)

	pos := CellPosition{Row: 0, ColumnID: "qty"}
	ed.Begin(pos)
	ed.Input("250")
	require.NoError(t, ed.Commit())
	assert.Equal(t, 100.0, data.rows[0]["qty"])

	ed.Begin(pos)
	ed.Input("-3")
	require.NoError(t, ed.Commit())
	assert.Equal(t, 0.0, data.rows[0]["qty"])

	// an empty buffer still commits nil, never a clamped zero
	ed.BeginEmpty(pos)
	require.NoError(t, ed.Commit())
	assert.Nil(t, data.rows[0]["qty"])
}

func TestUnchangedCommitSkipsCallback(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 2, ColumnID: "title"}
	ed.Begin(pos)
	require.NoError(t, ed.Commit())
	assert.Zero(t, data.totalUpdates(), "committing an unchanged value must not call UpdateData")

	// numeric identity across types also counts as unchanged
	num := CellPosition{Row: 2, ColumnID: "amount"}
	ed.Begin(num)
	ed.Input("2")
	require.NoError(t, ed.Commit())
	assert.Zero(t, data.totalUpdates())
}

func TestCommitAndAdvance(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 1, ColumnID: "title"}
	ed.Begin(pos)
	ed.Input("hello")
	require.NoError(t, ed.CommitAndAdvance())

	assert.Equal(t, "hello", data.rows[1]["title"])
	f, ok := st.Focused()
	require.True(t, ok)
	assert.Equal(t, CellPosition{Row: 2, ColumnID: "title"}, f)

	// advancing from the last row clamps
	lastPos := CellPosition{Row: 4, ColumnID: "title"}
	ed.Begin(lastPos)
	ed.Input("bye")
	require.NoError(t, ed.CommitAndAdvance())
	f, _ = st.Focused()
	assert.Equal(t, 4, f.Row)
}

func TestEscapeRestoresOriginal(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "title"}
	before := data.rows[0]["title"]
	ed.Begin(pos)
	ed.Input("scratch that")
	require.NoError(t, ed.Cancel())

	_, editing := st.Editing()
	assert.False(t, editing)
	assert.Equal(t, before, data.rows[0]["title"])
	assert.Zero(t, data.totalUpdates())
}

func TestLongTextDebouncedCommit(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)
	loop := &loopDispatch{}
	ed.Dispatch = loop.enqueue

	pos := CellPosition{Row: 0, ColumnID: "notes"}
	ed.Begin(pos)
	ed.Input("partial")
	assert.Zero(t, data.totalUpdates(), "debounced edit must not commit immediately")

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, data.totalUpdates(), "the timer only queues; the loop applies")
	loop.drain()
	assert.Equal(t, 1, data.totalUpdates())
	assert.Equal(t, "partial", data.rows[0]["notes"])
}

func TestLongTextWithoutDispatchCommitsOnBlur(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "notes"}
	ed.Begin(pos)
	ed.Input("typed")
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, data.totalUpdates(), "without a dispatch no timer may write")

	require.NoError(t, ed.Commit())
	assert.Equal(t, "typed", data.rows[0]["notes"])
}

func TestStaleDispatchedCommitIsDropped(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)
	loop := &loopDispatch{}
	ed.Dispatch = loop.enqueue

	pos := CellPosition{Row: 0, ColumnID: "notes"}
	before := data.rows[0]["notes"]
	ed.Begin(pos)
	ed.Input("stale")
	time.Sleep(40 * time.Millisecond) // timer queues the commit

	require.NoError(t, ed.Cancel())
	loop.drain()
	assert.Zero(t, data.totalUpdates(), "a commit queued before cancel must not land after it")
	assert.Equal(t, before, data.rows[0]["notes"])
}

func TestLongTextBlurFlushesImmediately(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "notes"}
	ed.Begin(pos)
	ed.Input("flushed")
	require.NoError(t, ed.Commit())
	assert.Equal(t, "flushed", data.rows[0]["notes"])
}

func TestLongTextEscapeRestoresAfterDebounce(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)
	loop := &loopDispatch{}
	ed.Dispatch = loop.enqueue

	pos := CellPosition{Row: 0, ColumnID: "notes"}
	before := data.rows[0]["notes"]
	ed.Begin(pos)
	ed.Input("will be undone")
	time.Sleep(40 * time.Millisecond)
	loop.drain()
	require.Equal(t, "will be undone", data.rows[0]["notes"])

	require.NoError(t, ed.Cancel())
	assert.Equal(t, before, data.rows[0]["notes"], "escape restores the pre-edit value even after a debounced commit fired")
}

func TestCheckboxTogglesWithoutEditMode(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "active"}
	before := data.rows[0]["active"].(bool)
	ed.Begin(pos)

	_, editing := st.Editing()
	assert.False(t, editing, "checkboxes have no edit mode")
	assert.Equal(t, !before, data.rows[0]["active"])
}

func TestSelectChooseOptionCommitsImmediately(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 1, ColumnID: "status"}
	ed.Begin(pos)
	_, editing := st.Editing()
	require.True(t, editing, "select edit mode is the open option list")

	require.NoError(t, ed.ChooseOption("done"))
	_, editing = st.Editing()
	assert.False(t, editing)
	assert.Equal(t, "done", data.rows[1]["status"])
}

func TestSelectEscapeRestores(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 1, ColumnID: "status"}
	before := data.rows[1]["status"]
	ed.Begin(pos)
	require.NoError(t, ed.Cancel())
	_, editing := st.Editing()
	assert.False(t, editing)
	assert.Equal(t, before, data.rows[1]["status"])
}

func TestMultiSelectTogglesCommitLive(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 2, ColumnID: "tags"}
	ed.Begin(pos)
	require.NoError(t, ed.ToggleOption("red"))
	require.NoError(t, ed.ToggleOption("blue"))
	assert.Equal(t, []string{"red", "blue"}, data.rows[2]["tags"])

	require.NoError(t, ed.ToggleOption("red"))
	assert.Equal(t, []string{"blue"}, data.rows[2]["tags"])
}

func TestMultiSelectEscapeRestores(t *testing.T) {
	_, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 2, ColumnID: "tags"}
	ed.Begin(pos)
	require.NoError(t, ed.ToggleOption("red"))
	require.NoError(t, ed.Cancel())
	assert.Equal(t, []string{}, data.rows[2]["tags"])
}

func TestRejectedUpdateDoesNotStickEditor(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)
	data.failUpdate = errors.New("backend down")

	pos := CellPosition{Row: 0, ColumnID: "title"}
	before := data.rows[0]["title"]
	ed.Begin(pos)
	ed.Input("doomed")
	err := ed.Commit()
	assert.Error(t, err)

	_, editing := st.Editing()
	assert.False(t, editing, "a rejected update must not leave the state machine stuck")
	assert.Equal(t, before, data.rows[0]["title"])
}

func TestFileUploadFlow(t *testing.T) {
	cols := append(testColumns(), Column{
		ID: "docs", Name: "Docs", Variant: VariantFile, MaxFiles: 2, MaxFileSize: 16,
	})
	st := NewState(cols, 3)
	data := newFakeData(cols, 3)
	data.rows[0]["docs"] = []FileRef{}
	cb := data.callbacks(cols)
	uploadErr := error(nil)
	cb.OnFilesUpload = func(req FileUploadRequest) ([]FileRef, error) {
		if uploadErr != nil {
			return nil, uploadErr
		}
		refs := make([]FileRef, len(req.Files))
		for i, f := range req.Files {
			refs[i] = FileRef{ID: f.Name, Name: f.Name, Size: int64(len(f.Data))}
		}
		return refs, nil
	}
	ed := NewEditor(st, cb, data.value, 0)

	pos := CellPosition{Row: 0, ColumnID: "docs"}
	run, err := ed.UploadFiles(pos, []FileUpload{{Name: "a.txt", Data: []byte("hi")}})
	require.NoError(t, err)
	assert.True(t, ed.IsUploading(pos), "cell stays in uploading state until the result lands")

	refs, err := run()
	require.NoError(t, err)
	require.NoError(t, ed.FinishUpload(pos, refs, nil))
	assert.False(t, ed.IsUploading(pos))
	got := toFileRefs(data.rows[0]["docs"])
	require.Len(t, got, 1)
	assert.Equal(t, "a.txt", got[0].Name)

	// failure reverts to the pre-upload value
	uploadErr = errors.New("storage offline")
	run, err = ed.UploadFiles(pos, []FileUpload{{Name: "b.txt", Data: []byte("yo")}})
	require.NoError(t, err)
	_, err = run()
	require.Error(t, err)
	assert.Error(t, ed.FinishUpload(pos, nil, err))
	assert.False(t, ed.IsUploading(pos))
	assert.Len(t, toFileRefs(data.rows[0]["docs"]), 1)
}

func TestFileUploadConstraints(t *testing.T) {
	cols := append(testColumns(), Column{
		ID: "docs", Name: "Docs", Variant: VariantFile, MaxFiles: 1, MaxFileSize: 4,
	})
	st := NewState(cols, 1)
	data := newFakeData(cols, 1)
	data.rows[0]["docs"] = []FileRef{{ID: "x", Name: "x"}}
	cb := data.callbacks(cols)
	cb.OnFilesUpload = func(FileUploadRequest) ([]FileRef, error) { return nil, nil }
	ed := NewEditor(st, cb, data.value, 0)

	pos := CellPosition{Row: 0, ColumnID: "docs"}
	_, err := ed.UploadFiles(pos, []FileUpload{{Name: "y", Data: []byte("ok")}})
	assert.Error(t, err, "max file count exceeded")

	data.rows[0]["docs"] = []FileRef{}
	_, err = ed.UploadFiles(pos, []FileUpload{{Name: "big", Data: []byte("too large")}})
	assert.Error(t, err, "max file size exceeded")
}

func TestFileDeleteFlow(t *testing.T) {
	cols := append(testColumns(), Column{ID: "docs", Name: "Docs", Variant: VariantFile})
	st := NewState(cols, 1)
	data := newFakeData(cols, 1)
	data.rows[0]["docs"] = []FileRef{{ID: "1", Name: "keep"}, {ID: "2", Name: "drop"}}
	cb := data.callbacks(cols)
	cb.OnFilesDelete = func(FileDeleteRequest) error { return nil }
	ed := NewEditor(st, cb, data.value, 0)

	pos := CellPosition{Row: 0, ColumnID: "docs"}
	run, err := ed.DeleteFiles(pos, []string{"2"})
	require.NoError(t, err)
	require.NoError(t, run())
	require.NoError(t, ed.FinishDelete(pos, []string{"2"}, nil))

	got := toFileRefs(data.rows[0]["docs"])
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Name)
}

func TestFocusChangeFlushesEdit(t *testing.T) {
	st, ed, data := newTestEditor(t, 5)

	pos := CellPosition{Row: 0, ColumnID: "title"}
	ed.Begin(pos)
	ed.Input("flush me")

	st.Focus(CellPosition{Row: 3, ColumnID: "due"})
	_, editing := st.Editing()
	assert.False(t, editing)
	assert.Equal(t, "flush me", data.rows[0]["title"])
}
