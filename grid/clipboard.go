package grid

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Serialize renders the selected cells as tab-separated text for the
// system clipboard. Participating columns keep their first-seen order
// re-sorted by grid position; rows are the sorted distinct selected
// row indices. Holes in a non-rectangular selection serialize as empty
// strings at their position in the bounding row/column sets. Fields
// containing tabs, newlines or quotes are quoted RFC-4180 style so a
// round trip through Parse reproduces them.
func Serialize(st *State, values ValueFunc) string {
	cells := st.SelectedCells()
	if len(cells) == 0 {
		if pos, ok := st.Focused(); ok {
			cells = []CellPosition{pos}
		} else {
			return ""
		}
	}

	var colIDs []string
	seenCol := make(map[string]bool)
	var rows []int
	seenRow := make(map[int]bool)
	for _, c := range cells {
		if !seenCol[c.ColumnID] {
			seenCol[c.ColumnID] = true
			colIDs = append(colIDs, c.ColumnID)
		}
		if !seenRow[c.Row] {
			seenRow[c.Row] = true
			rows = append(rows, c.Row)
		}
	}
	sort.Ints(rows)
	sort.Slice(colIDs, func(i, j int) bool {
		return ColumnIndex(st.Columns, colIDs[i]) < ColumnIndex(st.Columns, colIDs[j])
	})

	var b strings.Builder
	for ri, row := range rows {
		if ri > 0 {
			b.WriteByte('\n')
		}
		for ci, colID := range colIDs {
			if ci > 0 {
				b.WriteByte('\t')
			}
			pos := CellPosition{Row: row, ColumnID: colID}
			if st.IsSelected(pos) || len(cells) == 1 {
				b.WriteString(quoteField(FormatValue(values(pos))))
			}
		}
	}
	return b.String()
}

// FormatValue stringifies a cell value for the clipboard: nil becomes
// the empty string, numbers drop trailing zeroes, slices join on
// commas.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return FormatValue(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case []string:
		return strings.Join(val, ",")
	case []FileRef:
		names := make([]string, len(val))
		for i, f := range val {
			names[i] = f.Name
		}
		return strings.Join(names, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func quoteField(s string) string {
	if !strings.ContainsAny(s, "\t\n\r\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ParsePasteText parses clipboard text into a rectangular grid of
// string values. Text starting with a quote, or containing a
// tab-quote sequence, takes the quoted path (doubled-quote escapes,
// embedded tabs/newlines, \n or \r\n row ends); everything else takes
// the simple path, which reconstructs rows whose unquoted fields
// contain raw newlines by accumulating lines until the dominant tab
// count is reached. fallbackColumns is the expected column count when
// the text contains no tabs at all (0 treats each line as its own
// row). Parsing never fails: malformed quoting degrades to the
// offending text taken literally.
func ParsePasteText(text string, fallbackColumns int) [][]string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if strings.HasPrefix(text, `"`) || strings.Contains(text, "\t\"") {
		return parseQuoted(text)
	}
	return parseSimple(text, fallbackColumns)
}

func parseQuoted(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	var raw strings.Builder // field text as it appeared, for literal degrade
	inQuotes := false
	quoted := false

	endField := func() {
		if quoted && inQuotes {
			// unterminated quote: keep the raw text literally
			row = append(row, raw.String())
		} else {
			row = append(row, field.String())
		}
		field.Reset()
		raw.Reset()
		inQuotes = false
		quoted = false
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if inQuotes {
			raw.WriteRune(ch)
			if ch != '"' {
				field.WriteRune(ch)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				raw.WriteRune('"')
				i++
			} else {
				inQuotes = false
			}
			continue
		}
		switch {
		case ch == '"' && field.Len() == 0 && !quoted:
			inQuotes = true
			quoted = true
			raw.WriteRune(ch)
		case ch == '\t':
			endField()
		case ch == '\n':
			endRow()
		case ch == '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				endRow()
				i++
			} else {
				field.WriteRune(ch)
				raw.WriteRune(ch)
			}
		default:
			field.WriteRune(ch)
			raw.WriteRune(ch)
		}
	}
	endRow()
	return rows
}

func parseSimple(text string, fallbackColumns int) [][]string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	expectedTabs := 0
	for _, l := range lines {
		if n := strings.Count(l, "\t"); n > expectedTabs {
			expectedTabs = n
		}
	}
	if expectedTabs == 0 && fallbackColumns > 1 {
		expectedTabs = fallbackColumns - 1
	}

	var rows [][]string
	for i := 0; i < len(lines); {
		acc := lines[i]
		i++
		// a row with embedded newlines is short on tabs; pull lines in
		// until the dominant count is reached
		for strings.Count(acc, "\t") < expectedTabs && i < len(lines) {
			acc += "\n" + lines[i]
			i++
		}
		rows = append(rows, strings.Split(acc, "\t"))
	}
	return rows
}

// PastePlan is a parsed paste waiting to be applied at a destination.
// When the pasted block runs past the last row, RowsNeeded is how many
// rows the grid is short; nothing is written until the caller resolves
// the expansion decision through ApplyExpand or ApplyTruncate, and a
// dismissed decision applies nothing. Neither resume path re-parses
// the clipboard text.
type PastePlan struct {
	Rows       [][]string
	Start      CellPosition
	RowsNeeded int
}

// PlanPaste resolves the destination of parsed rows at the focused
// cell. It performs no mutation.
func PlanPaste(rows [][]string, start CellPosition, st *State) *PastePlan {
	start = st.Clamp(start)
	needed := start.Row + len(rows) - st.RowCount
	if needed < 0 {
		needed = 0
	}
	return &PastePlan{Rows: rows, Start: start, RowsNeeded: needed}
}

// NeedsExpansion reports whether the paste overflows the current rows.
func (p *PastePlan) NeedsExpansion() bool {
	return p.RowsNeeded > 0
}

// ApplyExpand creates RowsNeeded new rows through OnRowsAdd, then
// writes the full paste in one batched UpdateData call.
func (p *PastePlan) ApplyExpand(st *State, cb Callbacks) error {
	if p.RowsNeeded > 0 {
		if cb.OnRowsAdd == nil {
			return fmt.Errorf("paste needs %d new rows but no row-add collaborator is configured", p.RowsNeeded)
		}
		if err := cb.OnRowsAdd(p.RowsNeeded); err != nil {
			return err
		}
		st.SetRowCount(st.RowCount + p.RowsNeeded)
	}
	return p.apply(st, cb, st.RowCount)
}

// ApplyTruncate writes only the values landing within existing rows.
func (p *PastePlan) ApplyTruncate(st *State, cb Callbacks) error {
	return p.apply(st, cb, st.RowCount)
}

func (p *PastePlan) apply(st *State, cb Callbacks, rowLimit int) error {
	startCol := ColumnIndex(st.Columns, p.Start.ColumnID)
	if startCol < 0 {
		startCol = 0
	}
	var updates []CellUpdate
	for ri, row := range p.Rows {
		target := p.Start.Row + ri
		if target >= rowLimit {
			break
		}
		for ci, raw := range row {
			colIdx := startCol + ci
			if colIdx >= len(st.Columns) {
				break
			}
			col := st.Columns[colIdx]
			if col.Variant == VariantFile {
				// file cells are not paste targets; keep them untouched
				continue
			}
			updates = append(updates, CellUpdate{
				Row:      target,
				ColumnID: col.ID,
				Value:    ConvertForVariant(col, raw),
			})
		}
	}
	if len(updates) == 0 || cb.UpdateData == nil {
		return nil
	}
	return cb.UpdateData(updates)
}

// ConvertForVariant coerces a pasted string into the value shape a
// column stores: numbers parse (currency noise stripped), checkboxes
// accept the usual truthy spellings, multi-selects split on commas.
func ConvertForVariant(col Column, s string) any {
	switch col.Variant {
	case VariantNumber:
		cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
		if cleaned == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return clampNumber(col, f)
		}
		return nil
	case VariantCheckbox:
		lower := strings.ToLower(strings.TrimSpace(s))
		return lower == "true" || lower == "1" || lower == "yes" || lower == "x"
	case VariantMultiSelect:
		if strings.TrimSpace(s) == "" {
			return []string{}
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	case VariantSelect, VariantDate:
		if s == "" {
			return nil
		}
		return s
	case VariantFile:
		// paste skips file columns entirely; a bare string has no refs
		return nil
	default:
		return s
	}
}
