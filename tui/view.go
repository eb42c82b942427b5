package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadmann7/tablecn-sub001/grid"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	selectStyle  = lipgloss.NewStyle().Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0"))
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	overlayStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.view == viewLibrary {
		return m.viewLibrary()
	}
	return m.viewGrid()
}

func (m *Model) viewLibrary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" tablecn"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(" error: "+m.err.Error()) + "\n")
	}

	if len(m.docs) == 0 {
		b.WriteString(dimStyle.Render(" no sheets found\n"))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (searched %s)\n", m.dataDir)))
	}

	visibleRows := m.height - 4
	if visibleRows < 1 {
		visibleRows = 1
	}
	if m.libCursor < m.libScroll {
		m.libScroll = m.libCursor
	}
	if m.libCursor >= m.libScroll+visibleRows {
		m.libScroll = m.libCursor - visibleRows + 1
	}

	for i := m.libScroll; i < len(m.docs) && i < m.libScroll+visibleRows; i++ {
		d := m.docs[i]
		cursor := "  "
		if i == m.libCursor {
			cursor = "> "
		}

		title := d.Title
		if title == "" {
			title = d.ID
		}
		title = runewidth.Truncate(title, 24, "..")

		line := fmt.Sprintf("%s%-26s %3dx%-4d %s",
			cursor, title, d.Cols, d.Rows, d.ModTime.Format("Jan 02"))

		if i == m.libCursor {
			b.WriteString(cursorStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(" j/k navigate  enter open  n new sheet  q quit"))
	return b.String()
}

func (m *Model) viewGrid() string {
	var b strings.Builder

	title := m.sheet.ID
	if t := sheetDisplayTitle(m.sheet.Columns); t != "" {
		title = t
	}
	b.WriteString(titleStyle.Render(" " + runewidth.Truncate(title, 24, "..")))
	if m.sheet.Dirty {
		b.WriteString(" *")
	}
	if len(m.filters) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%d filter]", len(m.filters))))
	}
	if m.opts.ReadOnly {
		b.WriteString(dimStyle.Render("  [read-only]"))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(" error: "+m.err.Error()) + "\n")
	}

	cols := m.state.Columns
	if len(cols) == 0 {
		b.WriteString(dimStyle.Render(" (empty sheet)\n"))
		return b.String()
	}

	gutterW := len(fmt.Sprintf("%d", m.state.RowCount))
	if gutterW < 2 {
		gutterW = 2
	}
	colWidths := m.computeColWidths()
	visCols := m.visibleColumns(colWidths, gutterW)

	// header
	b.WriteString(gutterStyle.Render(strings.Repeat(" ", gutterW+1)))
	for i, ci := range visCols {
		w := colWidths[ci]
		name := runewidth.Truncate(cols[ci].Name, w, ".")
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", w, name)))
		if i < len(visCols)-1 {
			b.WriteString(dimStyle.Render("|"))
		}
	}
	b.WriteString("\n")

	// separator
	b.WriteString(dimStyle.Render(strings.Repeat("─", gutterW+1)))
	for i, ci := range visCols {
		b.WriteString(dimStyle.Render(strings.Repeat("─", colWidths[ci]+2)))
		if i < len(visCols)-1 {
			b.WriteString(dimStyle.Render("┼"))
		}
	}
	b.WriteString("\n")

	// data rows through the window
	startRow, endRow := m.window.VisibleRange(m.window.Offset())
	lines := m.rowHeight.Lines()
	for ri := startRow; ri <= endRow && ri < m.state.RowCount; ri++ {
		m.renderRow(&b, ri, gutterW, colWidths, visCols, lines)
	}

	// status bar
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	switch m.mode {
	case modeOptions:
		b.WriteString(m.viewOptions())
	case modePasteDialog:
		b.WriteString(m.viewPasteDialog())
	case modeFilter:
		b.WriteString(m.viewFilterBar())
	default:
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) renderRow(b *strings.Builder, ri, gutterW int, colWidths []int, visCols []int, lines int) {
	focused, hasFocus := m.state.Focused()
	editingPos, isEditing := m.state.Editing()

	// each cell renders as a block of `lines` terminal lines
	blocks := make([][]string, len(visCols))
	for i, ci := range visCols {
		col := m.state.Columns[ci]
		pos := grid.CellPosition{Row: ri, ColumnID: col.ID}

		var display string
		switch {
		case isEditing && editingPos == pos && m.mode == modeEdit:
			display = m.editor.Buffer() + "_"
		case isEditing && editingPos == pos && col.Variant == grid.VariantMultiSelect:
			display = strings.Join(m.editor.MultiBuffer(), ", ")
		case m.editor != nil && m.editor.IsUploading(pos):
			display = "uploading..."
		default:
			display = displayValue(m.cellValue(pos), col)
		}
		blocks[i] = cellLines(display, col, colWidths[ci], lines)
	}

	for li := 0; li < lines; li++ {
		if li == 0 {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%*d ", gutterW, ri+1)))
		} else {
			b.WriteString(strings.Repeat(" ", gutterW+1))
		}
		for i, ci := range visCols {
			pos := grid.CellPosition{Row: ri, ColumnID: m.state.Columns[ci].ID}
			cell := " " + blocks[i][li] + " "
			switch {
			case hasFocus && focused == pos:
				b.WriteString(cursorStyle.Render(cell))
			case m.state.IsSelected(pos):
				b.WriteString(selectStyle.Render(cell))
			default:
				b.WriteString(cell)
			}
			if i < len(visCols)-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString("\n")
	}
}

func (m *Model) statusLine() string {
	modeStr := "NORMAL"
	switch m.mode {
	case modeEdit:
		modeStr = "EDIT"
	case modeOptions:
		modeStr = "OPTIONS"
	case modePasteDialog:
		modeStr = "PASTE"
	case modeFilter:
		modeStr = "FILTER"
	}
	posStr := "-"
	if pos, ok := m.state.Focused(); ok {
		posStr = fmt.Sprintf("%d,%d", grid.ColumnIndex(m.state.Columns, pos.ColumnID), pos.Row)
	}
	status := fmt.Sprintf(" [%s] %s  %dx%d", posStr, modeStr, len(m.state.Columns), m.state.RowCount)
	if n := m.state.SelectionSize(); n > 1 {
		status += fmt.Sprintf("  %d selected", n)
	}
	return statusStyle.Render(status)
}

func (m *Model) viewOptions() string {
	col := m.editor.EditingColumn()
	chosen := map[string]bool{}
	if col.Variant == grid.VariantMultiSelect {
		for _, v := range m.editor.MultiBuffer() {
			chosen[v] = true
		}
	} else if pos, ok := m.state.Editing(); ok {
		if s, isStr := m.cellValue(pos).(string); isStr {
			chosen[s] = true
		}
	}

	var b strings.Builder
	b.WriteString(col.Name + "\n")
	for i, opt := range col.Options {
		cursor := "  "
		if i == m.optCursor {
			cursor = "> "
		}
		mark := "( )"
		if col.Variant == grid.VariantMultiSelect {
			mark = "[ ]"
			if chosen[opt.Value] {
				mark = "[x]"
			}
		} else if chosen[opt.Value] {
			mark = "(*)"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, opt.Label))
	}
	hint := "enter choose  esc cancel"
	if col.Variant == grid.VariantMultiSelect {
		hint = "space toggle  enter done  esc cancel"
	}
	b.WriteString(dimStyle.Render(hint))
	return overlayStyle.Render(b.String())
}

func (m *Model) viewPasteDialog() string {
	expand := "  add rows  "
	truncate := "  discard extra  "
	if m.pasteExpand {
		expand = cursorStyle.Render(expand)
	} else {
		truncate = cursorStyle.Render(truncate)
	}
	msg := fmt.Sprintf("paste needs %d more row(s)\n%s %s\n", m.pastePlan.RowsNeeded, expand, truncate)
	msg += dimStyle.Render("tab switch  enter apply  esc cancel")
	return overlayStyle.Render(msg)
}

func (m *Model) viewFilterBar() string {
	col := m.filterColumn()
	ops := grid.OperatorsFor(col.Variant)
	op := ops[m.filterOp%len(ops)]
	line := fmt.Sprintf("filter: %s %s %s",
		headerStyle.Render(" "+col.Name+" "),
		statusStyle.Render(op.Label()),
		m.filterInput.View())
	hint := dimStyle.Render("  ↑↓ column  tab operator  ctrl+r clear  enter apply  esc close")
	return line + hint
}

// --- Cell formatting ---

// displayValue renders a cell for the grid body.
func displayValue(v any, col grid.Column) string {
	if col.Variant == grid.VariantCheckbox {
		if b, _ := v.(bool); b {
			return "[x]"
		}
		return "[ ]"
	}
	return grid.FormatValue(v)
}

// cellLines fits a display string into a block of `lines` lines of
// `width` cells. Only long-text cells wrap; everything else shows its
// first line and pads.
func cellLines(display string, col grid.Column, width, lines int) []string {
	out := make([]string, lines)
	if col.Variant == grid.VariantLongText && lines > 1 {
		parts := wrapText(display, width, lines)
		for i := 0; i < lines; i++ {
			if i < len(parts) {
				out[i] = alignCell(parts[i], col, width)
			} else {
				out[i] = strings.Repeat(" ", width)
			}
		}
		return out
	}
	display = firstLine(display)
	out[0] = alignCell(display, col, width)
	for i := 1; i < lines; i++ {
		out[i] = strings.Repeat(" ", width)
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

// wrapText hard-wraps s into at most max lines of the given width.
func wrapText(s string, width, max int) []string {
	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		for raw != "" && len(lines) < max {
			if runewidth.StringWidth(raw) <= width {
				lines = append(lines, raw)
				raw = ""
				break
			}
			cut := runewidth.Truncate(raw, width, "")
			lines = append(lines, cut)
			raw = raw[len(cut):]
		}
		if len(lines) >= max {
			break
		}
	}
	return lines
}

func alignCell(s string, col grid.Column, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, ".")
	}
	if col.Variant == grid.VariantNumber {
		return fmt.Sprintf("%*s", width+len(s)-runewidth.StringWidth(s), s)
	}
	return runewidth.FillRight(s, width)
}

func (m *Model) computeColWidths() []int {
	cols := m.state.Columns
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.Name)
		if c.Width > 0 {
			widths[i] = c.Width
		}
		if widths[i] < 4 {
			widths[i] = 4
		}
	}
	sampleEnd := len(m.viewRows)
	if sampleEnd > 100 {
		sampleEnd = 100
	}
	for ri := 0; ri < sampleEnd; ri++ {
		for i, c := range cols {
			s := firstLine(displayValue(m.cellValue(grid.CellPosition{Row: ri, ColumnID: c.ID}), c))
			if w := runewidth.StringWidth(s); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > 30 {
			widths[i] = 30
		}
	}
	return widths
}

// visibleColumns picks the horizontally visible column indices. Pinned
// columns always render first; the remaining width windows over the
// unpinned columns, keeping the focused one on screen.
func (m *Model) visibleColumns(widths []int, gutterW int) []int {
	avail := m.width - gutterW - 3

	var pinned, scrolling []int
	for i, c := range m.state.Columns {
		if c.PinnedLeft {
			pinned = append(pinned, i)
			avail -= widths[i] + 3
		} else {
			scrolling = append(scrolling, i)
		}
	}

	cx := 0
	if pos, ok := m.state.Focused(); ok {
		if i := grid.ColumnIndex(m.state.Columns, pos.ColumnID); i >= 0 {
			for si, ci := range scrolling {
				if ci == i {
					cx = si
					break
				}
			}
		}
	}

	start := 0
	used := 0
	end := start
	for end < len(scrolling) {
		w := widths[scrolling[end]] + 3
		if used+w > avail && end > start {
			break
		}
		used += w
		end++
	}
	if cx >= end {
		end = cx + 1
		used = 0
		for i := end - 1; i >= 0; i-- {
			used += widths[scrolling[i]] + 3
			if used > avail {
				start = i + 1
				break
			}
			start = i
		}
	}
	if cx < start {
		start = cx
	}
	return append(pinned, scrolling[start:end]...)
}

func sheetDisplayTitle(cols []grid.Column) string {
	names := make([]string, 0, 3)
	for i, c := range cols {
		if i >= 3 {
			break
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, "/")
}
