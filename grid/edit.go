package grid

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Editor is the cell editing controller. It enforces the single-editor
// invariant (at most one cell in edit mode, entering a new edit first
// flushes the previous one through its commit path) and implements the
// per-variant commit and cancel rules.
//
// Committed values flow through Callbacks.UpdateData; commits whose
// value equals the initial value skip the callback entirely.
type Editor struct {
	state  *State
	cb     Callbacks
	values ValueFunc

	col      Column
	buffer   string
	multiBuf []string
	original any

	// true once a debounced or live commit wrote during this edit, so
	// Escape knows it must write the original value back
	wroteDuringEdit bool

	debounce *Debouncer
	delay    time.Duration

	uploading map[string]bool

	// Err holds the last collaborator failure for the host to surface.
	Err error

	// Dispatch, when set, carries debounce-timer commits back onto the
	// host's event loop; the closure it receives must run there. It may
	// be called from the timer goroutine. Without it long-text edits arm
	// no timer and commit on Commit or blur, so Editor state is only
	// ever touched on the caller's goroutine.
	Dispatch func(fn func())
}

// NewEditor wires an editing controller to selection state. The values
// function reads current cell values for edit seeding and comparisons.
// debounceDelay <= 0 uses DefaultDebounce.
func NewEditor(st *State, cb Callbacks, values ValueFunc, debounceDelay time.Duration) *Editor {
	e := &Editor{
		state:     st,
		cb:        cb,
		values:    values,
		delay:     debounceDelay,
		uploading: make(map[string]bool),
	}
	st.beforeFocus = func(CellPosition) { e.Commit() }
	return e
}

// Begin enters edit mode on pos (Enter or double-click), seeding the
// buffer from the cell's current value. Checkboxes have no edit mode
// and toggle instead; file cells enter the upload flow separately.
func (e *Editor) Begin(pos CellPosition) {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok {
		return
	}
	if col.Variant == VariantCheckbox {
		e.ToggleCheckbox(pos)
		return
	}
	if col.Variant == VariantFile {
		return
	}
	e.begin(pos, col, editBuffer(col, e.values(pos)))
}

// BeginSeeded enters edit mode with the buffer pre-seeded by a typed
// printable character instead of the cell's current value. Only text
// variants and number cells (digits) accept seeding.
func (e *Editor) BeginSeeded(pos CellPosition, seed string) {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok {
		return
	}
	if !col.Variant.Textual() && col.Variant != VariantNumber {
		return
	}
	e.begin(pos, col, seed)
}

// BeginEmpty enters edit mode with an empty buffer (Backspace on a
// focused, non-editing cell).
func (e *Editor) BeginEmpty(pos CellPosition) {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok {
		return
	}
	if !col.Variant.Textual() && col.Variant != VariantNumber {
		return
	}
	e.begin(pos, col, "")
}

func (e *Editor) begin(pos CellPosition, col Column, buffer string) {
	if cur, editing := e.state.Editing(); editing && cur != pos {
		e.Commit()
	}
	e.state.Focus(pos)
	e.col = col
	e.buffer = buffer
	e.original = e.values(pos)
	e.wroteDuringEdit = false
	if col.Variant == VariantMultiSelect {
		e.multiBuf = append([]string(nil), toStrings(e.original)...)
	}
	if col.Variant == VariantLongText && e.Dispatch != nil {
		dispatch := e.Dispatch
		target := pos
		e.debounce = NewDebouncer(e.delay, func(v any) {
			dispatch(func() {
				// the edit may have ended before the loop ran this
				if cur, editing := e.state.Editing(); !editing || cur != target {
					return
				}
				s, _ := v.(string)
				e.writeValue(target, s)
				e.wroteDuringEdit = true
			})
		})
	} else {
		e.debounce = nil
	}
	p := pos
	e.state.setEditing(&p)
}

// Input replaces the edit buffer with s. Long-text edits additionally
// schedule a debounced commit of the new buffer.
func (e *Editor) Input(s string) {
	if _, editing := e.state.Editing(); !editing {
		return
	}
	e.buffer = s
	if e.col.Variant == VariantLongText && e.debounce != nil {
		e.debounce.Schedule(s)
	}
}

// Buffer returns the live edit buffer.
func (e *Editor) Buffer() string {
	return e.buffer
}

// EditingColumn returns the column of the cell being edited.
func (e *Editor) EditingColumn() Column {
	return e.col
}

// Commit flushes the current edit (blur, Enter, explicit save) and
// returns to idle. It is a no-op when nothing is being edited.
func (e *Editor) Commit() error {
	pos, editing := e.state.Editing()
	if !editing {
		return nil
	}
	var err error
	switch e.col.Variant {
	case VariantLongText:
		if e.debounce != nil {
			e.debounce.Cancel()
		}
		err = e.writeValue(pos, e.buffer)
	case VariantSelect, VariantMultiSelect:
		// option choices commit live; closing the list writes nothing
	case VariantNumber:
		err = e.writeValue(pos, clampNumber(e.col, parseNumberBuffer(e.buffer)))
	default:
		err = e.writeValue(pos, e.buffer)
	}
	e.exit()
	return err
}

// CommitAndAdvance commits and moves focus to the next row, same
// column (Enter on short-text, url and date cells).
func (e *Editor) CommitAndAdvance() error {
	pos, editing := e.state.Editing()
	if !editing {
		return nil
	}
	err := e.Commit()
	next := e.state.Clamp(CellPosition{Row: pos.Row + 1, ColumnID: pos.ColumnID})
	e.state.Focus(next)
	e.state.CollapseTo(next)
	return err
}

// Cancel abandons the current edit (Escape), restoring the pre-edit
// value when a debounced or live commit already wrote something.
func (e *Editor) Cancel() error {
	pos, editing := e.state.Editing()
	if !editing {
		return nil
	}
	if e.debounce != nil {
		e.debounce.Cancel()
	}
	var err error
	if e.wroteDuringEdit {
		err = e.update(pos, e.original)
	}
	e.exit()
	return err
}

// ToggleCheckbox flips a checkbox cell immediately; checkboxes never
// enter edit mode.
func (e *Editor) ToggleCheckbox(pos CellPosition) error {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok || col.Variant != VariantCheckbox {
		return nil
	}
	cur, _ := e.values(pos).(bool)
	return e.update(pos, !cur)
}

// ChooseOption commits a select cell's new option immediately and
// closes the option list.
func (e *Editor) ChooseOption(value string) error {
	pos, editing := e.state.Editing()
	if !editing || e.col.Variant != VariantSelect {
		return nil
	}
	err := e.writeValue(pos, value)
	e.exit()
	return err
}

// ToggleOption adds or removes one option of a multi-select cell,
// committing immediately. The option list stays open until Commit or
// Cancel.
func (e *Editor) ToggleOption(value string) error {
	pos, editing := e.state.Editing()
	if !editing || e.col.Variant != VariantMultiSelect {
		return nil
	}
	found := false
	next := make([]string, 0, len(e.multiBuf)+1)
	for _, v := range e.multiBuf {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}
	e.multiBuf = next
	e.wroteDuringEdit = true
	return e.update(pos, append([]string(nil), next...))
}

// MultiBuffer returns the working option set of a multi-select edit.
func (e *Editor) MultiBuffer() []string {
	return e.multiBuf
}

// UploadFiles marks pos as uploading and returns a runner wrapping the
// OnFilesUpload collaborator. The host executes the runner off the
// event loop and reports its result through FinishUpload; the cell
// stays in a transient uploading state in between.
func (e *Editor) UploadFiles(pos CellPosition, files []FileUpload) (func() ([]FileRef, error), error) {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok || col.Variant != VariantFile {
		return nil, fmt.Errorf("cell %s is not a file cell", pos.Key())
	}
	if e.cb.OnFilesUpload == nil {
		return nil, fmt.Errorf("no upload collaborator configured")
	}
	if col.MaxFiles > 0 {
		have := len(toFileRefs(e.values(pos)))
		if have+len(files) > col.MaxFiles {
			return nil, fmt.Errorf("cell %s allows at most %d files", pos.Key(), col.MaxFiles)
		}
	}
	if col.MaxFileSize > 0 {
		for _, f := range files {
			if int64(len(f.Data)) > col.MaxFileSize {
				return nil, fmt.Errorf("file %s exceeds %d bytes", f.Name, col.MaxFileSize)
			}
		}
	}
	e.uploading[pos.Key()] = true
	req := FileUploadRequest{Files: files, Row: pos.Row, ColumnID: pos.ColumnID}
	return func() ([]FileRef, error) { return e.cb.OnFilesUpload(req) }, nil
}

// FinishUpload applies an upload result. On failure the cell reverts
// to its pre-upload value (nothing was written) and leaves edit state
// intact; on success the new refs are appended through UpdateData.
func (e *Editor) FinishUpload(pos CellPosition, refs []FileRef, uploadErr error) error {
	delete(e.uploading, pos.Key())
	if uploadErr != nil {
		e.Err = uploadErr
		return uploadErr
	}
	cur := toFileRefs(e.values(pos))
	return e.update(pos, append(append([]FileRef(nil), cur...), refs...))
}

// DeleteFiles marks pos as busy and returns a runner wrapping the
// OnFilesDelete collaborator; report through FinishDelete.
func (e *Editor) DeleteFiles(pos CellPosition, fileIDs []string) (func() error, error) {
	pos = e.state.Clamp(pos)
	col, ok := ColumnByID(e.state.Columns, pos.ColumnID)
	if !ok || col.Variant != VariantFile {
		return nil, fmt.Errorf("cell %s is not a file cell", pos.Key())
	}
	if e.cb.OnFilesDelete == nil {
		return nil, fmt.Errorf("no delete collaborator configured")
	}
	e.uploading[pos.Key()] = true
	req := FileDeleteRequest{FileIDs: fileIDs, Row: pos.Row, ColumnID: pos.ColumnID}
	return func() error { return e.cb.OnFilesDelete(req) }, nil
}

// FinishDelete applies a delete result, dropping the removed refs from
// the cell value on success and leaving it untouched on failure.
func (e *Editor) FinishDelete(pos CellPosition, fileIDs []string, deleteErr error) error {
	delete(e.uploading, pos.Key())
	if deleteErr != nil {
		e.Err = deleteErr
		return deleteErr
	}
	removed := make(map[string]bool, len(fileIDs))
	for _, id := range fileIDs {
		removed[id] = true
	}
	var kept []FileRef
	for _, f := range toFileRefs(e.values(pos)) {
		if !removed[f.ID] {
			kept = append(kept, f)
		}
	}
	if kept == nil {
		kept = []FileRef{}
	}
	return e.update(pos, kept)
}

// IsUploading reports whether a file operation is in flight for pos.
func (e *Editor) IsUploading(pos CellPosition) bool {
	return e.uploading[pos.Key()]
}

// writeValue commits value for the cell being edited, skipping the
// update callback when it equals the initial value.
func (e *Editor) writeValue(pos CellPosition, value any) error {
	if equalValues(e.original, value) {
		return nil
	}
	err := e.update(pos, value)
	if err == nil {
		e.original = value
	}
	return err
}

func (e *Editor) update(pos CellPosition, value any) error {
	if e.cb.UpdateData == nil {
		return nil
	}
	err := e.cb.UpdateData([]CellUpdate{{Row: pos.Row, ColumnID: pos.ColumnID, Value: value}})
	if err != nil {
		e.Err = err
	}
	return err
}

func (e *Editor) exit() {
	e.state.setEditing(nil)
	e.buffer = ""
	e.multiBuf = nil
	e.debounce = nil
	e.wroteDuringEdit = false
}

// editBuffer renders a cell value as the initial edit buffer for its
// variant.
func editBuffer(col Column, v any) string {
	if v == nil {
		return ""
	}
	switch col.Variant {
	case VariantNumber:
		return FormatValue(v)
	case VariantMultiSelect:
		return strings.Join(toStrings(v), ",")
	default:
		return FormatValue(v)
	}
}

// parseNumberBuffer mirrors a numeric input's buffer: empty commits
// nil, anything else its numeric value (unparseable input degrades to
// nil rather than erroring).
func parseNumberBuffer(buffer string) any {
	s := strings.TrimSpace(buffer)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// clampNumber bounds a committed numeric value by the column's min and
// max, when set. Step is an input increment hint and is not enforced.
func clampNumber(col Column, v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if col.Min != nil && f < *col.Min {
		f = *col.Min
	}
	if col.Max != nil && f > *col.Max {
		f = *col.Max
	}
	return f
}

// equalValues compares a committed value against the initial one,
// coercing across the numeric types a data layer may hand back.
func equalValues(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toStrings normalizes a multi-select cell value to a string slice.
func toStrings(v any) []string {
	switch s := v.(type) {
	case nil:
		return nil
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}
	return nil
}

// toFileRefs normalizes a file cell value to its refs.
func toFileRefs(v any) []FileRef {
	switch f := v.(type) {
	case nil:
		return nil
	case []FileRef:
		return f
	case []any:
		out := make([]FileRef, 0, len(f))
		for _, e := range f {
			if r, ok := e.(FileRef); ok {
				out = append(out, r)
			}
		}
		return out
	}
	return nil
}
