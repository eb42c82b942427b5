package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sadmann7/tablecn-sub001/grid"
	"github.com/sadmann7/tablecn-sub001/store"
)

// --- Library ---

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.libCursor > 0 {
			m.libCursor--
		}
	case "down", "j":
		if m.libCursor < len(m.docs)-1 {
			m.libCursor++
		}
	case "enter":
		if m.libCursor < len(m.docs) {
			m.openSheet(m.docs[m.libCursor])
		}
	case "n":
		if m.opts.ReadOnly {
			return m, nil
		}
		info, err := store.CreateSheet(m.dataDir, []grid.Column{
			{ID: "0", Name: "name", Variant: grid.VariantShortText},
			{ID: "1", Name: "notes", Variant: grid.VariantLongText},
			{ID: "2", Name: "amount", Variant: grid.VariantNumber},
		})
		if err != nil {
			m.err = err
			return m, nil
		}
		m.openSheet(info)
	}
	return m, nil
}

// --- Grid (normal mode) ---

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.closeSheet()
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		m.closeSheet()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Save):
		m.err = m.editor.Commit()
		if err := m.sheet.Save(); err != nil {
			m.err = err
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		m.nav.Move(m.state, grid.MoveUp, false)
	case key.Matches(msg, keys.Down):
		m.nav.Move(m.state, grid.MoveDown, false)
	case key.Matches(msg, keys.Left):
		m.nav.Move(m.state, grid.MoveLeft, false)
	case key.Matches(msg, keys.Right):
		m.nav.Move(m.state, grid.MoveRight, false)
	case key.Matches(msg, keys.NextCell):
		m.nav.Move(m.state, grid.MoveNextCell, false)
	case key.Matches(msg, keys.PrevCell):
		m.nav.Move(m.state, grid.MovePrevCell, false)
	case key.Matches(msg, keys.RowStart):
		m.nav.Move(m.state, grid.MoveRowStart, false)
	case key.Matches(msg, keys.RowEnd):
		m.nav.Move(m.state, grid.MoveRowEnd, false)
	case key.Matches(msg, keys.DocStart):
		m.nav.Move(m.state, grid.MoveDocStart, false)
	case key.Matches(msg, keys.DocEnd):
		m.nav.Move(m.state, grid.MoveDocEnd, false)
	case key.Matches(msg, keys.PageUp):
		m.nav.Move(m.state, grid.MovePageUp, false)
	case key.Matches(msg, keys.PageDown):
		m.nav.Move(m.state, grid.MovePageDown, false)
	case key.Matches(msg, keys.Extend):
		switch msg.String() {
		case "shift+up":
			m.nav.Move(m.state, grid.MoveUp, true)
		case "shift+down":
			m.nav.Move(m.state, grid.MoveDown, true)
		case "shift+left":
			m.nav.Move(m.state, grid.MoveLeft, true)
		case "shift+right":
			m.nav.Move(m.state, grid.MoveRight, true)
		}

	case key.Matches(msg, keys.SelectAll):
		m.state.SelectAll()
	case key.Matches(msg, keys.Copy):
		if err := m.clip.Write(m.cmds.Copy()); err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.Cut):
		if m.opts.ReadOnly {
			return m, nil
		}
		text, err := m.cmds.Cut()
		if err != nil {
			m.err = err
			return m, nil
		}
		if err := m.clip.Write(text); err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.Paste):
		return m.startPaste()
	case key.Matches(msg, keys.AddRow):
		if m.opts.ReadOnly {
			return m, nil
		}
		if err := m.cmds.AddRow(); err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.DelRows):
		if m.opts.ReadOnly {
			return m, nil
		}
		if err := m.cmds.DeleteRows(); err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.Filter):
		m.mode = modeFilter
		m.filterInput.SetValue("")
		m.filterInput.Focus()

	case key.Matches(msg, keys.Edit):
		m.beginEdit()
	case key.Matches(msg, keys.ClearEdit):
		if m.opts.ReadOnly {
			return m, nil
		}
		if pos, ok := m.state.Focused(); ok {
			m.editor.BeginEmpty(pos)
			if _, editing := m.state.Editing(); editing {
				m.mode = modeEdit
			}
		}

	default:
		s := msg.String()
		if m.opts.ReadOnly || (len(s) != 1 && s != " ") {
			return m, nil
		}
		pos, ok := m.state.Focused()
		if !ok {
			return m, nil
		}
		col, ok := grid.ColumnByID(m.state.Columns, pos.ColumnID)
		if !ok {
			return m, nil
		}
		if s == " " && col.Variant == grid.VariantCheckbox {
			if err := m.editor.ToggleCheckbox(pos); err != nil {
				m.err = err
			}
			return m, nil
		}
		m.editor.BeginSeeded(pos, s)
		if _, editing := m.state.Editing(); editing {
			m.mode = modeEdit
		}
	}
	return m, nil
}

// beginEdit routes Enter on the focused cell per column variant.
func (m *Model) beginEdit() {
	if m.opts.ReadOnly {
		return
	}
	pos, ok := m.state.Focused()
	if !ok {
		return
	}
	col, ok := grid.ColumnByID(m.state.Columns, pos.ColumnID)
	if !ok {
		return
	}
	switch col.Variant {
	case grid.VariantSelect, grid.VariantMultiSelect:
		m.editor.Begin(pos)
		if _, editing := m.state.Editing(); editing {
			m.mode = modeOptions
			m.optCursor = 0
		}
	case grid.VariantFile:
		// no file picker in the terminal host
	default:
		m.editor.Begin(pos)
		if _, editing := m.state.Editing(); editing {
			m.mode = modeEdit
		}
	}
}

// --- Edit mode ---

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		var err error
		if m.editor.EditingColumn().Variant == grid.VariantLongText {
			err = m.editor.Commit()
		} else {
			err = m.editor.CommitAndAdvance()
		}
		if err != nil {
			m.err = err
		}
		m.mode = modeNormal
	case "esc":
		if err := m.editor.Cancel(); err != nil {
			m.err = err
		}
		m.mode = modeNormal
	case "tab":
		if err := m.editor.Commit(); err != nil {
			m.err = err
		}
		m.nav.Move(m.state, grid.MoveNextCell, false)
		m.mode = modeNormal
	case "backspace":
		buf := []rune(m.editor.Buffer())
		if len(buf) > 0 {
			m.editor.Input(string(buf[:len(buf)-1]))
		}
	default:
		s := msg.String()
		if len(s) == 1 || s == " " {
			m.editor.Input(m.editor.Buffer() + s)
		}
	}
	return m, nil
}

// --- Option list (select / multi-select) ---

func (m *Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col := m.editor.EditingColumn()
	switch msg.String() {
	case "up", "k":
		if m.optCursor > 0 {
			m.optCursor--
		}
	case "down", "j":
		if m.optCursor < len(col.Options)-1 {
			m.optCursor++
		}
	case " ":
		if col.Variant == grid.VariantMultiSelect && m.optCursor < len(col.Options) {
			if err := m.editor.ToggleOption(col.Options[m.optCursor].Value); err != nil {
				m.err = err
			}
		}
	case "enter":
		if col.Variant == grid.VariantSelect && m.optCursor < len(col.Options) {
			if err := m.editor.ChooseOption(col.Options[m.optCursor].Value); err != nil {
				m.err = err
			}
		} else {
			if err := m.editor.Commit(); err != nil {
				m.err = err
			}
		}
		m.mode = modeNormal
	case "esc":
		if err := m.editor.Cancel(); err != nil {
			m.err = err
		}
		m.mode = modeNormal
	}
	return m, nil
}

// --- Paste ---

func (m *Model) startPaste() (tea.Model, tea.Cmd) {
	if m.opts.ReadOnly {
		return m, nil
	}
	pos, ok := m.state.Focused()
	if !ok {
		return m, nil
	}
	text, err := m.clip.Read()
	if err != nil {
		m.err = err
		return m, nil
	}
	rows := grid.ParsePasteText(text, len(m.state.Columns))
	if len(rows) == 0 {
		return m, nil
	}
	plan := grid.PlanPaste(rows, pos, m.state)
	if plan.NeedsExpansion() {
		m.pastePlan = plan
		m.pasteExpand = true
		m.mode = modePasteDialog
		return m, nil
	}
	if err := plan.ApplyTruncate(m.state, m.cmds.Callbacks); err != nil {
		m.err = err
	}
	return m, nil
}

func (m *Model) updatePasteDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.pasteExpand = !m.pasteExpand
	case "enter":
		var err error
		if m.pasteExpand {
			err = m.pastePlan.ApplyExpand(m.state, m.cmds.Callbacks)
		} else {
			err = m.pastePlan.ApplyTruncate(m.state, m.cmds.Callbacks)
		}
		if err != nil {
			m.err = err
		}
		m.pastePlan = nil
		m.mode = modeNormal
	case "esc":
		m.pastePlan = nil
		m.mode = modeNormal
	}
	return m, nil
}

// --- Filter ---

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.Blur()
		m.mode = modeNormal
		return m, nil
	case "ctrl+r":
		m.filters = nil
		m.applyFilters()
		m.filterInput.SetValue("")
		return m, nil
	case "up":
		m.cycleFilterColumn(-1)
		return m, nil
	case "down":
		m.cycleFilterColumn(1)
		return m, nil
	case "tab":
		ops := grid.OperatorsFor(m.filterColumn().Variant)
		m.filterOp = (m.filterOp + 1) % len(ops)
		m.applyCurrentFilter()
		return m, nil
	case "enter":
		m.applyCurrentFilter()
		m.filterInput.Blur()
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyCurrentFilter()
	return m, cmd
}

func (m *Model) filterColumn() grid.Column {
	if len(m.sheet.Columns) == 0 {
		return grid.Column{}
	}
	if m.filterCol >= len(m.sheet.Columns) {
		m.filterCol = 0
	}
	return m.sheet.Columns[m.filterCol]
}

func (m *Model) cycleFilterColumn(dir int) {
	n := len(m.sheet.Columns)
	if n == 0 {
		return
	}
	m.filterCol = (m.filterCol + dir + n) % n
	// operators are variant-specific, so a column change resets them
	m.filterOp = 0
	m.applyCurrentFilter()
}

// applyCurrentFilter rebuilds the single active filter from the dialog
// state and reapplies it.
func (m *Model) applyCurrentFilter() {
	col := m.filterColumn()
	if col.ID == "" {
		return
	}
	ops := grid.OperatorsFor(col.Variant)
	if m.filterOp >= len(ops) {
		m.filterOp = 0
	}
	op := ops[m.filterOp]

	f := grid.Filter{ColumnID: col.ID, Operator: op}
	raw := m.filterInput.Value()
	if op.NeedsValue() {
		if raw == "" {
			// incomplete filter matches everything; drop it
			m.filters = nil
			m.applyFilters()
			return
		}
		if op.NeedsSecondValue() {
			lo, hi, found := strings.Cut(raw, "..")
			f.Value = filterOperand(col, op, lo)
			if found && hi != "" {
				f.Value2 = filterOperand(col, op, hi)
			}
		} else {
			f.Value = filterOperand(col, op, raw)
		}
	}
	m.filters = []grid.Filter{f}
	m.applyFilters()
}

// filterOperand types the raw input for the column it filters.
func filterOperand(col grid.Column, op grid.Operator, raw string) any {
	switch op {
	case grid.OpIsAnyOf, grid.OpIsNoneOf, grid.OpHasAnyOf, grid.OpHasNoneOf:
		return grid.ConvertForVariant(grid.Column{Variant: grid.VariantMultiSelect}, raw)
	}
	switch col.Variant {
	case grid.VariantNumber:
		return grid.ConvertForVariant(col, raw)
	default:
		return raw
	}
}
