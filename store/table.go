package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/automerge/automerge-go"

	"github.com/sadmann7/tablecn-sub001/grid"
)

// Sheet is one editable grid document: column definitions in data[0],
// data rows after it. Mutations update both the automerge document and
// the in-memory rows; Save persists a snapshot.
type Sheet struct {
	ID      string
	Path    string
	Doc     *automerge.Doc
	Columns []grid.Column
	Rows    []map[string]any
	Dirty   bool
}

// OpenSheet loads the sheet with the given id from dataDir.
func OpenSheet(dataDir, id string) (*Sheet, error) {
	path := DocPath(dataDir, id)
	doc, _, err := LoadDoc(path)
	if err != nil {
		return nil, err
	}
	cols, rows, err := readTable(doc)
	if err != nil {
		return nil, err
	}
	return &Sheet{ID: id, Path: path, Doc: doc, Columns: cols, Rows: rows}, nil
}

// Value reads one cell by data row index.
func (s *Sheet) Value(row int, columnID string) any {
	if row < 0 || row >= len(s.Rows) {
		return nil
	}
	return s.Rows[row][columnID]
}

// SetCell writes one cell to memory and the automerge document.
// Data rows start at list index 1; row 0 holds column definitions.
func (s *Sheet) SetCell(row int, columnID string, value any) error {
	if row < 0 || row >= len(s.Rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	if grid.ColumnIndex(s.Columns, columnID) < 0 {
		return fmt.Errorf("unknown column %q", columnID)
	}
	s.Rows[row][columnID] = value
	if err := s.Doc.Path("data", row+1, columnID).Set(encodeValue(value)); err != nil {
		return fmt.Errorf("set cell (%d,%s): %w", row, columnID, err)
	}
	s.Dirty = true
	return nil
}

// AppendRows adds count empty rows to the end of the sheet.
func (s *Sheet) AppendRows(count int) error {
	dataList := s.Doc.Path("data").List()
	if dataList == nil {
		return fmt.Errorf("sheet has no data list")
	}
	for i := 0; i < count; i++ {
		if err := dataList.Append(automerge.NewMap()); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
		row := make(map[string]any)
		for _, c := range s.Columns {
			row[c.ID] = nil
		}
		s.Rows = append(s.Rows, row)
	}
	s.Dirty = true
	return nil
}

// DeleteRows removes the given data rows. Indices must be sorted
// ascending; deletion walks them backwards so earlier indices stay
// valid.
func (s *Sheet) DeleteRows(rows []int) error {
	// Path(...).List() is path-bound and panics in Delete (unlike Append,
	// which resolves the path); use the materialized list instead.
	dataVal, err := s.Doc.Path("data").Get()
	if err != nil || dataVal.Kind() != automerge.KindList {
		return fmt.Errorf("sheet has no data list")
	}
	dataList := dataVal.List()
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r < 0 || r >= len(s.Rows) {
			continue
		}
		if err := dataList.Delete(r + 1); err != nil {
			return fmt.Errorf("delete row %d: %w", r, err)
		}
		s.Rows = append(s.Rows[:r], s.Rows[r+1:]...)
	}
	s.Dirty = true
	return nil
}

// AppendColumn adds a column definition to data[0] and a nil cell to
// every row.
func (s *Sheet) AppendColumn(col grid.Column) error {
	if col.ID == "" {
		col.ID = strconv.Itoa(len(s.Columns))
	}
	if col.Name == "" {
		col.Name = "col" + col.ID
	}
	if err := s.Doc.Path("data", 0, col.ID).Set(encodeColumn(col)); err != nil {
		return fmt.Errorf("append column %s: %w", col.ID, err)
	}
	s.Columns = append(s.Columns, col)
	for _, row := range s.Rows {
		row[col.ID] = nil
	}
	s.Dirty = true
	return nil
}

// Commit finalizes a batch of document mutations with one change.
func (s *Sheet) Commit(message string) {
	s.Doc.Commit(message)
}

// Save writes the snapshot to disk and clears the dirty flag.
func (s *Sheet) Save() error {
	if err := SaveDoc(s.Doc, s.Path); err != nil {
		return err
	}
	s.Dirty = false
	return nil
}

// --- automerge decoding ---

func readTable(doc *automerge.Doc) ([]grid.Column, []map[string]any, error) {
	dataVal, err := doc.Path("data").Get()
	if err != nil {
		return nil, nil, fmt.Errorf("sheet has no data: %w", err)
	}
	if dataVal.Kind() != automerge.KindList {
		return nil, nil, fmt.Errorf("sheet data is %s, expected list", dataVal.Kind())
	}
	dataList := dataVal.List()
	total := dataList.Len()
	if total == 0 {
		return nil, nil, fmt.Errorf("sheet data list is empty")
	}

	row0Val, err := dataList.Get(0)
	if err != nil {
		return nil, nil, fmt.Errorf("get column defs: %w", err)
	}
	if row0Val.Kind() != automerge.KindMap {
		return nil, nil, fmt.Errorf("column defs row is %s, expected map", row0Val.Kind())
	}
	row0 := row0Val.Map()
	keys, err := row0.Keys()
	if err != nil {
		return nil, nil, fmt.Errorf("column def keys: %w", err)
	}

	var cols []grid.Column
	for _, k := range keys {
		colVal, err := row0.Get(k)
		if err != nil || colVal.Kind() != automerge.KindMap {
			continue
		}
		cols = append(cols, decodeColumn(k, colVal.Map()))
	}
	sort.Slice(cols, func(i, j int) bool {
		a, _ := strconv.Atoi(cols[i].ID)
		b, _ := strconv.Atoi(cols[j].ID)
		return a < b
	})

	var rows []map[string]any
	for i := 1; i < total; i++ {
		rowVal, err := dataList.Get(i)
		if err != nil || rowVal.Kind() != automerge.KindMap {
			continue
		}
		rowMap := rowVal.Map()
		row := make(map[string]any)
		for _, c := range cols {
			v, err := rowMap.Get(c.ID)
			if err != nil {
				row[c.ID] = nil
				continue
			}
			row[c.ID] = decodeValue(v, c)
		}
		rows = append(rows, row)
	}
	return cols, rows, nil
}

func decodeColumn(key string, m *automerge.Map) grid.Column {
	col := grid.Column{
		ID:      key,
		Name:    getStr(m, "name"),
		Variant: grid.Variant(getStr(m, "type")),
	}
	if col.Name == "" {
		col.Name = "col" + key
	}
	if col.Variant == "" {
		col.Variant = grid.VariantShortText
	}
	for _, v := range getStrList(m, "options") {
		col.Options = append(col.Options, grid.Option{Value: v, Label: v})
	}
	if f, ok := getFloat(m, "min"); ok {
		col.Min = &f
	}
	if f, ok := getFloat(m, "max"); ok {
		col.Max = &f
	}
	if f, ok := getFloat(m, "step"); ok {
		col.Step = &f
	}
	if f, ok := getFloat(m, "maxFiles"); ok {
		col.MaxFiles = int(f)
	}
	if f, ok := getFloat(m, "maxFileSize"); ok {
		col.MaxFileSize = int64(f)
	}
	col.Accept = getStrList(m, "accept")
	return col
}

func encodeColumn(col grid.Column) map[string]any {
	def := map[string]any{
		"key":  col.ID,
		"name": col.Name,
		"type": string(col.Variant),
	}
	if len(col.Options) > 0 {
		opts := make([]string, len(col.Options))
		for i, o := range col.Options {
			opts[i] = o.Value
		}
		def["options"] = opts
	}
	if col.Min != nil {
		def["min"] = *col.Min
	}
	if col.Max != nil {
		def["max"] = *col.Max
	}
	if col.Step != nil {
		def["step"] = *col.Step
	}
	if col.MaxFiles > 0 {
		def["maxFiles"] = col.MaxFiles
	}
	if col.MaxFileSize > 0 {
		def["maxFileSize"] = col.MaxFileSize
	}
	if len(col.Accept) > 0 {
		def["accept"] = col.Accept
	}
	return def
}

// encodeValue maps engine values onto shapes automerge stores
// natively. FileRefs become plain maps.
func encodeValue(v any) any {
	switch val := v.(type) {
	case []grid.FileRef:
		out := make([]any, len(val))
		for i, f := range val {
			out[i] = map[string]any{
				"id": f.ID, "name": f.Name, "size": f.Size, "type": f.Type, "url": f.URL,
			}
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

func decodeValue(v *automerge.Value, col grid.Column) any {
	switch v.Kind() {
	case automerge.KindVoid, automerge.KindNull:
		return nil
	case automerge.KindStr:
		return v.Str()
	case automerge.KindText:
		s, _ := v.Text().Get()
		return s
	case automerge.KindFloat64:
		return v.Float64()
	case automerge.KindInt64:
		return float64(v.Int64())
	case automerge.KindUint64:
		return float64(v.Uint64())
	case automerge.KindBool:
		return v.Bool()
	case automerge.KindList:
		return decodeList(v.List(), col)
	default:
		return v.Interface()
	}
}

func decodeList(list *automerge.List, col grid.Column) any {
	n := list.Len()
	if col.Variant == grid.VariantFile {
		refs := make([]grid.FileRef, 0, n)
		for i := 0; i < n; i++ {
			el, err := list.Get(i)
			if err != nil || el.Kind() != automerge.KindMap {
				continue
			}
			m := el.Map()
			size, _ := getFloat(m, "size")
			refs = append(refs, grid.FileRef{
				ID:   getStr(m, "id"),
				Name: getStr(m, "name"),
				Size: int64(size),
				Type: getStr(m, "type"),
				URL:  getStr(m, "url"),
			})
		}
		return refs
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		el, err := list.Get(i)
		if err != nil {
			continue
		}
		switch el.Kind() {
		case automerge.KindStr:
			out = append(out, el.Str())
		case automerge.KindText:
			s, _ := el.Text().Get()
			out = append(out, s)
		}
	}
	return out
}

func getStr(m *automerge.Map, key string) string {
	v, err := m.Get(key)
	if err != nil {
		return ""
	}
	switch v.Kind() {
	case automerge.KindStr:
		return v.Str()
	case automerge.KindText:
		s, _ := v.Text().Get()
		return s
	default:
		return ""
	}
}

func getFloat(m *automerge.Map, key string) (float64, bool) {
	v, err := m.Get(key)
	if err != nil {
		return 0, false
	}
	switch v.Kind() {
	case automerge.KindFloat64:
		return v.Float64(), true
	case automerge.KindInt64:
		return float64(v.Int64()), true
	case automerge.KindUint64:
		return float64(v.Uint64()), true
	}
	return 0, false
}

func getStrList(m *automerge.Map, key string) []string {
	v, err := m.Get(key)
	if err != nil || v.Kind() != automerge.KindList {
		return nil
	}
	list := v.List()
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		el, err := list.Get(i)
		if err != nil {
			continue
		}
		switch el.Kind() {
		case automerge.KindStr:
			out = append(out, el.Str())
		case automerge.KindText:
			s, _ := el.Text().Get()
			out = append(out, s)
		}
	}
	return out
}

func sheetTitle(cols []grid.Column) string {
	var names []string
	for _, c := range cols {
		if c.Name != "" {
			names = append(names, c.Name)
		}
		if len(names) >= 5 {
			break
		}
	}
	return strings.Join(names, ", ")
}
