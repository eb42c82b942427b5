package store

import (
	"fmt"
	"sort"

	"github.com/sadmann7/tablecn-sub001/grid"
)

// RowMapper resolves the grid's view-relative row indices to sheet
// data rows. Hosts showing the unfiltered, unsorted sheet can use
// IdentityMapper.
type RowMapper func(viewRow int) (sheetRow int, ok bool)

// IdentityMapper maps view rows straight onto sheet rows.
func IdentityMapper(s *Sheet) RowMapper {
	return func(viewRow int) (int, bool) {
		return viewRow, viewRow >= 0 && viewRow < len(s.Rows)
	}
}

// Bind builds the engine's collaborator callbacks over a sheet. Every
// batched update lands as one automerge change; row additions report
// the first cell of the new row so the engine can focus it.
func (s *Sheet) Bind(mapper RowMapper, filesDir string) grid.Callbacks {
	return grid.Callbacks{
		UpdateData: func(updates []grid.CellUpdate) error {
			for _, u := range updates {
				row, ok := mapper(u.Row)
				if !ok {
					return fmt.Errorf("row %d not in view", u.Row)
				}
				if err := s.SetCell(row, u.ColumnID, u.Value); err != nil {
					return err
				}
			}
			s.Commit("update cells")
			return nil
		},
		OnRowsDelete: func(rows []int) error {
			mapped := make([]int, 0, len(rows))
			for _, r := range rows {
				row, ok := mapper(r)
				if !ok {
					continue
				}
				mapped = append(mapped, row)
			}
			// a filtered view can map sorted view rows onto unsorted
			// sheet rows
			sort.Ints(mapped)
			if err := s.DeleteRows(mapped); err != nil {
				return err
			}
			s.Commit("delete rows")
			return nil
		},
		OnRowAdd: func() (*grid.CellPosition, error) {
			if err := s.AppendRows(1); err != nil {
				return nil, err
			}
			s.Commit("add row")
			if len(s.Columns) == 0 {
				return nil, nil
			}
			return &grid.CellPosition{Row: len(s.Rows) - 1, ColumnID: s.Columns[0].ID}, nil
		},
		OnRowsAdd: func(count int) error {
			if err := s.AppendRows(count); err != nil {
				return err
			}
			s.Commit("add rows")
			return nil
		},
		OnFilesUpload: func(req grid.FileUploadRequest) ([]grid.FileRef, error) {
			return SaveFiles(s.Path, filesDir, req)
		},
		OnFilesDelete: func(req grid.FileDeleteRequest) error {
			return DeleteFiles(s.Path, filesDir, req)
		},
	}
}
