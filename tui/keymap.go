package tui

import "github.com/charmbracelet/bubbles/key"

// Printable characters seed cell edits, so every command key carries a
// modifier or is a dedicated key. Ctrl+C is copy, not quit.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Extend   key.Binding // shift+arrows, matched separately
	NextCell key.Binding
	PrevCell key.Binding
	RowStart key.Binding
	RowEnd   key.Binding
	DocStart key.Binding
	DocEnd   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Edit      key.Binding
	ClearEdit key.Binding
	SelectAll key.Binding
	Copy      key.Binding
	Cut       key.Binding
	Paste     key.Binding
	AddRow    key.Binding
	DelRows   key.Binding
	Filter    key.Binding
	Save      key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Extend:   key.NewBinding(key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right"), key.WithHelp("shift+↑↓←→", "extend selection")),
		NextCell: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next cell")),
		PrevCell: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev cell")),
		RowStart: key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "row start")),
		RowEnd:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "row end")),
		DocStart: key.NewBinding(key.WithKeys("ctrl+home"), key.WithHelp("ctrl+home", "first cell")),
		DocEnd:   key.NewBinding(key.WithKeys("ctrl+end"), key.WithHelp("ctrl+end", "last cell")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),

		Edit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		ClearEdit: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "clear & edit")),
		SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		Cut:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cut")),
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		AddRow:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add row")),
		DelRows:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete rows")),
		Filter:    key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "filter")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Copy, k.Paste, k.Filter, k.Save, k.Back, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Extend, k.NextCell, k.PrevCell},
		{k.RowStart, k.RowEnd, k.DocStart, k.DocEnd, k.PageUp, k.PageDown},
		{k.Edit, k.ClearEdit, k.SelectAll, k.Copy, k.Cut, k.Paste},
		{k.AddRow, k.DelRows, k.Filter, k.Save, k.Back, k.Quit},
	}
}
