package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sadmann7/tablecn-sub001/grid"
)

var sheetRefRe = regexp.MustCompile(`@[a-zA-Z0-9_:.-]+`)

// ExecuteQuery runs a SQL statement over stored sheets. `@<sheet-id>`
// references load the named sheet into an in-memory sqlite table; the
// result comes back as an ephemeral read-only sheet.
func ExecuteQuery(code string, dataDir string) ([]grid.Column, []map[string]any, error) {
	refs := sheetRefRe.FindAllString(code, -1)

	type loadedSheet struct {
		cols      []grid.Column
		rows      []map[string]any
		tableName string
	}
	loaded := map[string]*loadedSheet{}

	for _, ref := range refs {
		id := ref[1:] // strip @
		if _, ok := loaded[id]; ok {
			continue
		}
		sheet, err := OpenSheet(dataDir, id)
		if err != nil {
			return nil, nil, fmt.Errorf("load @%s: %w", id, err)
		}
		loaded[id] = &loadedSheet{
			cols:      sheet.Columns,
			rows:      sheet.Rows,
			tableName: sanitizeIdent(id),
		}
	}

	rewritten := code
	for id, s := range loaded {
		rewritten = strings.ReplaceAll(rewritten, "@"+id, `"`+s.tableName+`"`)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()

	for _, s := range loaded {
		if err := loadIntoSQLite(db, s.tableName, s.cols, s.rows); err != nil {
			return nil, nil, err
		}
	}

	sqlRows, err := db.Query(rewritten)
	if err != nil {
		return nil, nil, err
	}
	defer sqlRows.Close()
	return scanQueryResults(sqlRows)
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func loadIntoSQLite(db *sql.DB, tableName string, cols []grid.Column, rows []map[string]any) error {
	colDefs := make([]string, len(cols))
	for i, c := range cols {
		sqlType := "TEXT"
		switch c.Variant {
		case grid.VariantNumber:
			sqlType = "REAL"
		case grid.VariantCheckbox:
			sqlType = "INTEGER"
		}
		colDefs[i] = fmt.Sprintf(`"%s" %s`, c.Name, sqlType)
	}
	_, err := db.Exec(fmt.Sprintf(`CREATE TABLE "%s" (%s)`, tableName, strings.Join(colDefs, ", ")))
	if err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, tableName, strings.Join(placeholders, ","))

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, row := range rows {
		vals := make([]any, len(cols))
		for i, c := range cols {
			vals[i] = sqlValue(row[c.ID])
		}
		if _, err := stmt.Exec(vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert into %s: %w", tableName, err)
		}
	}
	stmt.Close()
	return tx.Commit()
}

// sqlValue flattens multi-value cells into text for querying.
func sqlValue(v any) any {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case []grid.FileRef:
		names := make([]string, len(val))
		for i, f := range val {
			names[i] = f.Name
		}
		return strings.Join(names, ",")
	default:
		return v
	}
}

func scanQueryResults(sqlRows *sql.Rows) ([]grid.Column, []map[string]any, error) {
	colNames, err := sqlRows.Columns()
	if err != nil {
		return nil, nil, err
	}

	resultCols := make([]grid.Column, len(colNames))
	for i, name := range colNames {
		resultCols[i] = grid.Column{
			ID:      strconv.Itoa(i),
			Name:    name,
			Variant: grid.VariantShortText,
		}
	}

	var resultRows []map[string]any
	for sqlRows.Next() {
		ptrs := make([]any, len(colNames))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any)
		for i := range colNames {
			v := *(ptrs[i].(*any))
			// the sqlite driver hands back int64/float64/string/[]byte/nil
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[strconv.Itoa(i)] = v
		}
		resultRows = append(resultRows, row)
	}
	return resultCols, resultRows, sqlRows.Err()
}
