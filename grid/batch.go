package grid

import "sort"

// Commands implements the context-menu batch operations over the
// current selection: copy, cut, clear and row deletion. Multi-cell
// writes go through UpdateData as one batched call.
type Commands struct {
	State     *State
	Callbacks Callbacks
	Values    ValueFunc
}

// Copy serializes the selection (or the focused cell when nothing is
// selected) as clipboard text.
func (c *Commands) Copy() string {
	return Serialize(c.State, c.Values)
}

// Cut copies the selection and then clears it.
func (c *Commands) Cut() (string, error) {
	text := c.Copy()
	return text, c.Clear()
}

// Clear writes each selected cell's variant-appropriate empty value in
// one batched update.
func (c *Commands) Clear() error {
	cells := c.targets()
	if len(cells) == 0 || c.Callbacks.UpdateData == nil {
		return nil
	}
	updates := make([]CellUpdate, 0, len(cells))
	for _, pos := range cells {
		col, ok := ColumnByID(c.State.Columns, pos.ColumnID)
		if !ok {
			continue
		}
		updates = append(updates, CellUpdate{Row: pos.Row, ColumnID: pos.ColumnID, Value: col.EmptyValue()})
	}
	return c.Callbacks.UpdateData(updates)
}

// DeleteRows removes every row that has at least one selected cell,
// passing the distinct view indices sorted ascending.
func (c *Commands) DeleteRows() error {
	cells := c.targets()
	if len(cells) == 0 || c.Callbacks.OnRowsDelete == nil {
		return nil
	}
	seen := make(map[int]bool)
	var rows []int
	for _, pos := range cells {
		if !seen[pos.Row] {
			seen[pos.Row] = true
			rows = append(rows, pos.Row)
		}
	}
	sort.Ints(rows)
	if err := c.Callbacks.OnRowsDelete(rows); err != nil {
		return err
	}
	c.State.ClearSelection()
	c.State.SetRowCount(c.State.RowCount - len(rows))
	return nil
}

// AddRow appends one row through the collaborator and focuses the cell
// it reports back, if any.
func (c *Commands) AddRow() error {
	if c.Callbacks.OnRowAdd == nil {
		return nil
	}
	pos, err := c.Callbacks.OnRowAdd()
	if err != nil {
		return err
	}
	c.State.SetRowCount(c.State.RowCount + 1)
	if pos != nil {
		c.State.Focus(*pos)
		c.State.CollapseTo(*pos)
	}
	return nil
}

func (c *Commands) targets() []CellPosition {
	cells := c.State.SelectedCells()
	if len(cells) == 0 {
		if pos, ok := c.State.Focused(); ok {
			cells = []CellPosition{pos}
		}
	}
	return cells
}
