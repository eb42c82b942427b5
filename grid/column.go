package grid

// Variant is the declared data type of a column. It determines which
// editor the cell uses, which filter operators apply, and which empty
// value is written on clear.
type Variant string

const (
	VariantShortText   Variant = "short-text"
	VariantLongText    Variant = "long-text"
	VariantNumber      Variant = "number"
	VariantURL         Variant = "url"
	VariantCheckbox    Variant = "checkbox"
	VariantSelect      Variant = "select"
	VariantMultiSelect Variant = "multi-select"
	VariantDate        Variant = "date"
	VariantFile        Variant = "file"
)

// Textual reports whether typing a printable character on a focused,
// non-editing cell of this variant starts an edit seeded with that
// character.
func (v Variant) Textual() bool {
	switch v {
	case VariantShortText, VariantLongText, VariantURL:
		return true
	}
	return false
}

// Option is one choice of a select or multi-select column.
type Option struct {
	Value string
	Label string
}

// Column describes one column of the grid: identity, variant and the
// per-variant constraints. Columns are built once per grid
// configuration and treated as immutable by the engine.
type Column struct {
	ID      string
	Name    string
	Variant Variant

	// select / multi-select
	Options []Option

	// number
	Min  *float64
	Max  *float64
	Step *float64

	// file
	MaxFiles    int
	MaxFileSize int64
	Accept      []string

	// layout hints consumed by the host renderer
	Width      int
	PinnedLeft bool
}

// EmptyValue returns the value a cleared cell of this column takes:
// "" for text variants, false for checkboxes, an empty slice for
// multi-value variants and nil for everything else.
func (c Column) EmptyValue() any {
	switch c.Variant {
	case VariantShortText, VariantLongText, VariantURL:
		return ""
	case VariantCheckbox:
		return false
	case VariantMultiSelect:
		return []string{}
	case VariantFile:
		return []FileRef{}
	default:
		return nil
	}
}

// ColumnIndex returns the position of id within cols, or -1.
func ColumnIndex(cols []Column, id string) int {
	for i, c := range cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ColumnByID returns the column with the given id.
func ColumnByID(cols []Column, id string) (Column, bool) {
	i := ColumnIndex(cols, id)
	if i < 0 {
		return Column{}, false
	}
	return cols[i], true
}
