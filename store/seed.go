package store

import (
	"fmt"

	"github.com/automerge/automerge-go"

	"github.com/sadmann7/tablecn-sub001/grid"
)

// CreateSheet makes a new document with the given columns and no data
// rows, persists it under dataDir, and returns its info.
func CreateSheet(dataDir string, cols []grid.Column) (DocInfo, error) {
	doc := automerge.New()
	if err := doc.Path("data").Set(automerge.NewList()); err != nil {
		return DocInfo{}, fmt.Errorf("init data list: %w", err)
	}
	dataList := doc.Path("data").List()
	if err := dataList.Append(automerge.NewMap()); err != nil {
		return DocInfo{}, fmt.Errorf("init column defs: %w", err)
	}
	for i, col := range cols {
		if col.ID == "" {
			col.ID = fmt.Sprintf("%d", i)
		}
		if err := doc.Path("data", 0, col.ID).Set(encodeColumn(col)); err != nil {
			return DocInfo{}, fmt.Errorf("write column %s: %w", col.ID, err)
		}
	}
	doc.Commit("create sheet")

	id := newDocID()
	path := DocPath(dataDir, id)
	if err := SaveDoc(doc, path); err != nil {
		return DocInfo{}, err
	}
	return DocInfo{ID: id, Title: sheetTitle(cols), Path: path, Cols: len(cols)}, nil
}

// CreateDemoSheet seeds a sheet exercising every column variant, with
// a handful of rows to poke at.
func CreateDemoSheet(dataDir string) (DocInfo, error) {
	min, max, step := 0.0, 1000.0, 0.5
	cols := []grid.Column{
		{ID: "0", Name: "task", Variant: grid.VariantShortText},
		{ID: "1", Name: "notes", Variant: grid.VariantLongText},
		{ID: "2", Name: "amount", Variant: grid.VariantNumber, Min: &min, Max: &max, Step: &step},
		{ID: "3", Name: "status", Variant: grid.VariantSelect, Options: []grid.Option{
			{Value: "todo", Label: "todo"},
			{Value: "doing", Label: "doing"},
			{Value: "done", Label: "done"},
		}},
		{ID: "4", Name: "labels", Variant: grid.VariantMultiSelect, Options: []grid.Option{
			{Value: "red", Label: "red"},
			{Value: "green", Label: "green"},
			{Value: "blue", Label: "blue"},
		}},
		{ID: "5", Name: "done", Variant: grid.VariantCheckbox},
		{ID: "6", Name: "due", Variant: grid.VariantDate},
		{ID: "7", Name: "attachments", Variant: grid.VariantFile, MaxFiles: 3, MaxFileSize: 1 << 20},
	}

	info, err := CreateSheet(dataDir, cols)
	if err != nil {
		return DocInfo{}, err
	}
	sheet, err := OpenSheet(dataDir, info.ID)
	if err != nil {
		return DocInfo{}, err
	}

	type demoRow struct {
		task, notes, status, due string
		amount                   any
		labels                   []string
		done                     bool
	}
	rows := []demoRow{
		{"buy groceries", "milk, eggs, bread", "todo", "2026-09-01", 42.5, []string{"red"}, false},
		{"file taxes", "gather receipts first", "doing", "2026-04-15", 880.0, []string{"red", "blue"}, false},
		{"water plants", "", "done", "2026-08-20", nil, []string{"green"}, true},
		{"call dentist", "ask about friday slots", "todo", "", 0.0, nil, false},
		{"fix bike", "rear brake cable", "doing", "2026-09-10", 17.25, []string{"blue"}, false},
		{"read novel", "chapter 4 onwards", "done", "", nil, []string{"green", "blue"}, true},
		{"plan trip", "compare train fares", "todo", "2026-10-02", 310.0, nil, false},
		{"renew passport", "photos expire soon", "todo", "2026-11-30", 95.0, []string{"red"}, false},
		{"clean garage", "", "done", "2026-08-01", nil, nil, true},
	}
	if err := sheet.AppendRows(len(rows)); err != nil {
		return DocInfo{}, err
	}
	for i, r := range rows {
		cells := map[string]any{
			"0": r.task, "1": r.notes, "2": r.amount, "3": r.status,
			"4": r.labels, "5": r.done, "6": r.due,
		}
		for colID, v := range cells {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			if err := sheet.SetCell(i, colID, v); err != nil {
				return DocInfo{}, err
			}
		}
	}
	sheet.Commit("seed demo rows")
	if err := sheet.Save(); err != nil {
		return DocInfo{}, err
	}

	info.Rows = len(rows)
	return info, nil
}
