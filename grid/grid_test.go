package grid

import "fmt"

func testColumns() []Column {
	return []Column{
		{ID: "title", Name: "Title", Variant: VariantShortText},
		{ID: "notes", Name: "Notes", Variant: VariantLongText},
		{ID: "amount", Name: "Amount", Variant: VariantNumber},
		{ID: "status", Name: "Status", Variant: VariantSelect, Options: []Option{
			{Value: "todo", Label: "Todo"}, {Value: "done", Label: "Done"},
		}},
		{ID: "tags", Name: "Tags", Variant: VariantMultiSelect, Options: []Option{
			{Value: "red", Label: "Red"}, {Value: "blue", Label: "Blue"},
		}},
		{ID: "active", Name: "Active", Variant: VariantCheckbox},
		{ID: "due", Name: "Due", Variant: VariantDate},
	}
}

// fakeData is an in-memory data collaborator recording every callback
// invocation.
type fakeData struct {
	rows       []map[string]any
	updates    [][]CellUpdate
	deleted    [][]int
	rowsAdded  int
	failUpdate error
	failAdd    error
}

func newFakeData(cols []Column, n int) *fakeData {
	d := &fakeData{}
	for i := 0; i < n; i++ {
		row := make(map[string]any)
		for _, c := range cols {
			switch c.Variant {
			case VariantNumber:
				row[c.ID] = float64(i)
			case VariantCheckbox:
				row[c.ID] = i%2 == 0
			case VariantMultiSelect:
				row[c.ID] = []string{}
			default:
				row[c.ID] = fmt.Sprintf("%s-%d", c.ID, i)
			}
		}
		d.rows = append(d.rows, row)
	}
	return d
}

func (d *fakeData) value(pos CellPosition) any {
	if pos.Row < 0 || pos.Row >= len(d.rows) {
		return nil
	}
	return d.rows[pos.Row][pos.ColumnID]
}

func (d *fakeData) callbacks(cols []Column) Callbacks {
	return Callbacks{
		UpdateData: func(updates []CellUpdate) error {
			if d.failUpdate != nil {
				return d.failUpdate
			}
			d.updates = append(d.updates, updates)
			for _, u := range updates {
				for len(d.rows) <= u.Row {
					d.rows = append(d.rows, make(map[string]any))
				}
				d.rows[u.Row][u.ColumnID] = u.Value
			}
			return nil
		},
		OnRowsDelete: func(rows []int) error {
			d.deleted = append(d.deleted, rows)
			for i := len(rows) - 1; i >= 0; i-- {
				r := rows[i]
				if r >= 0 && r < len(d.rows) {
					d.rows = append(d.rows[:r], d.rows[r+1:]...)
				}
			}
			return nil
		},
		OnRowAdd: func() (*CellPosition, error) {
			if d.failAdd != nil {
				return nil, d.failAdd
			}
			d.rows = append(d.rows, make(map[string]any))
			d.rowsAdded++
			return &CellPosition{Row: len(d.rows) - 1, ColumnID: cols[0].ID}, nil
		},
		OnRowsAdd: func(count int) error {
			if d.failAdd != nil {
				return d.failAdd
			}
			for i := 0; i < count; i++ {
				d.rows = append(d.rows, make(map[string]any))
			}
			d.rowsAdded += count
			return nil
		},
	}
}

func (d *fakeData) totalUpdates() int {
	n := 0
	for _, batch := range d.updates {
		n += len(batch)
	}
	return n
}
