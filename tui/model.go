// Package tui is the terminal host for the grid engine: a library view
// listing stored sheets and a grid view wiring keyboard input into the
// engine's selection, editing, clipboard and filter state.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sadmann7/tablecn-sub001/grid"
	"github.com/sadmann7/tablecn-sub001/store"
)

type view int

const (
	viewLibrary view = iota
	viewGrid
)

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeOptions     // option list for select/multi-select cells
	modePasteDialog // paste overflows rows: expand or truncate
	modeFilter
)

// Options configures the host.
type Options struct {
	RowHeight grid.RowHeight
	ReadOnly  bool
	FilesDir  string // relative to each document directory
	Clipboard Clipboard
}

// Model is the bubbletea model for the whole app.
type Model struct {
	dataDir string
	opts    Options

	width  int
	height int
	err    error

	view view

	// library
	docs      []store.DocInfo
	libCursor int
	libScroll int

	// grid
	sheet     *store.Sheet
	state     *grid.State
	editor    *grid.Editor
	nav       *grid.Navigator
	window    *grid.FixedWindow
	cmds      grid.Commands
	rowHeight grid.RowHeight

	// viewRows maps view row indices onto sheet data rows; identity
	// when no filters are active
	viewRows []int
	filters  []grid.Filter

	mode        mode
	optCursor   int
	pastePlan   *grid.PastePlan
	pasteExpand bool
	filterCol   int
	filterOp    int
	filterInput textinput.Model

	keys keyMap
	help help.Model
	clip Clipboard
}

// New builds the app model rooted at dataDir.
func New(dataDir string, opts Options) *Model {
	if opts.RowHeight == "" {
		opts.RowHeight = grid.RowHeightShort
	}
	if opts.FilesDir == "" {
		opts.FilesDir = "files"
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}

	ti := textinput.New()
	ti.Placeholder = "filter value"
	ti.CharLimit = 128

	m := &Model{
		dataDir:     dataDir,
		opts:        opts,
		view:        viewLibrary,
		rowHeight:   opts.RowHeight,
		filterInput: ti,
		keys:        defaultKeyMap(),
		help:        help.New(),
		clip:        opts.Clipboard,
	}
	docs, err := store.Discover(dataDir)
	if err != nil {
		m.err = err
	}
	m.docs = docs
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.window != nil {
			m.window.SetViewSize(m.gridViewLines())
		}
		return m, nil
	case tea.KeyMsg:
		if m.view == viewLibrary {
			return m.updateLibrary(msg)
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeOptions:
			return m.updateOptions(msg)
		case modePasteDialog:
			return m.updatePasteDialog(msg)
		case modeFilter:
			return m.updateFilter(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

// openSheet switches to the grid view over one document.
func (m *Model) openSheet(info store.DocInfo) {
	sheet, err := store.OpenSheet(m.dataDir, info.ID)
	if err != nil {
		m.err = err
		return
	}
	m.sheet = sheet
	m.filters = nil
	m.viewRows = identityRows(len(sheet.Rows))

	m.state = grid.NewState(sheet.Columns, len(m.viewRows))
	m.window = grid.NewFixedWindow(m.rowHeight.Lines(), m.gridViewLines(), len(m.viewRows))
	m.nav = &grid.Navigator{Window: m.window}

	cb := m.bindCallbacks()
	m.editor = grid.NewEditor(m.state, cb, m.cellValue, 0)
	m.cmds = grid.Commands{State: m.state, Callbacks: cb, Values: m.cellValue}

	if len(sheet.Columns) > 0 && len(m.viewRows) > 0 {
		start := grid.CellPosition{Row: 0, ColumnID: sheet.Columns[0].ID}
		m.state.Focus(start)
	}

	m.view = viewGrid
	m.mode = modeNormal
	m.filterCol = 0
	m.filterOp = 0
	m.err = nil
}

func (m *Model) closeSheet() {
	if m.editor != nil {
		m.editor.Commit()
	}
	if m.sheet != nil && m.sheet.Dirty {
		if err := m.sheet.Save(); err != nil {
			m.err = err
			return
		}
	}
	m.sheet = nil
	m.state = nil
	m.editor = nil
	m.view = viewLibrary
	if docs, err := store.Discover(m.dataDir); err == nil {
		m.docs = docs
	}
}

// cellValue reads one cell through the view mapping.
func (m *Model) cellValue(pos grid.CellPosition) any {
	if pos.Row < 0 || pos.Row >= len(m.viewRows) {
		return nil
	}
	return m.sheet.Value(m.viewRows[pos.Row], pos.ColumnID)
}

// bindCallbacks wraps the sheet's collaborators so row additions and
// deletions keep the view mapping current. Row count bookkeeping on
// the selection state is the engine's job, not the wrapper's.
func (m *Model) bindCallbacks() grid.Callbacks {
	cb := m.sheet.Bind(func(viewRow int) (int, bool) {
		if viewRow < 0 || viewRow >= len(m.viewRows) {
			return 0, false
		}
		return m.viewRows[viewRow], true
	}, m.opts.FilesDir)

	if m.opts.ReadOnly {
		// no collaborators at all: uploads and deletes are writes too
		return grid.Callbacks{}
	}

	innerAdd := cb.OnRowAdd
	cb.OnRowAdd = func() (*grid.CellPosition, error) {
		pos, err := innerAdd()
		if err != nil {
			return nil, err
		}
		// appended rows join the view end even when filters would hide
		// them, so the caller can focus what it just created
		m.viewRows = append(m.viewRows, len(m.sheet.Rows)-1)
		if pos != nil {
			pos.Row = len(m.viewRows) - 1
		}
		m.window.SetRowCount(len(m.viewRows))
		return pos, nil
	}
	innerAddN := cb.OnRowsAdd
	cb.OnRowsAdd = func(count int) error {
		if err := innerAddN(count); err != nil {
			return err
		}
		base := len(m.sheet.Rows) - count
		for i := 0; i < count; i++ {
			m.viewRows = append(m.viewRows, base+i)
		}
		m.window.SetRowCount(len(m.viewRows))
		return nil
	}
	innerDel := cb.OnRowsDelete
	cb.OnRowsDelete = func(rows []int) error {
		if err := innerDel(rows); err != nil {
			return err
		}
		m.viewRows = grid.FilterRows(m.sheet.Columns, len(m.sheet.Rows), m.filters, m.sheet.Value)
		m.window.SetRowCount(len(m.viewRows))
		return nil
	}
	return cb
}

// applyFilters recomputes the view mapping and clamps grid state.
func (m *Model) applyFilters() {
	m.viewRows = grid.FilterRows(m.sheet.Columns, len(m.sheet.Rows), m.filters, m.sheet.Value)
	m.state.SetRowCount(len(m.viewRows))
	m.window.SetRowCount(len(m.viewRows))
}

// gridViewLines is the terminal height left for data rows.
func (m *Model) gridViewLines() int {
	// title + header + separator + status + help
	h := m.height - 5
	if h < m.rowHeight.Lines() {
		h = m.rowHeight.Lines()
	}
	return h
}

func identityRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
