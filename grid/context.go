package grid

// CellUpdate is one committed edit: write Value to the cell at
// (Row, ColumnID) in the current view ordering.
type CellUpdate struct {
	Row      int
	ColumnID string
	Value    any
}

// FileRef describes one stored attachment of a file-variant cell.
type FileRef struct {
	ID   string
	Name string
	Size int64
	Type string
	URL  string
}

// FileUpload is the payload of one file handed to OnFilesUpload.
type FileUpload struct {
	Name string
	Type string
	Data []byte
}

// FileUploadRequest asks the host to store files for one cell.
type FileUploadRequest struct {
	Files    []FileUpload
	Row      int
	ColumnID string
}

// FileDeleteRequest asks the host to remove stored files from one cell.
type FileDeleteRequest struct {
	FileIDs  []string
	Row      int
	ColumnID string
}

// Callbacks is the collaborator contract between the engine and the
// host data layer. The engine never touches durable data directly;
// every committed change flows through these functions. Multi-cell
// operations (paste, batch clear, cut) arrive as a single UpdateData
// invocation so the host re-renders once.
//
// Row indices in all callbacks are view-relative; the host resolves
// them to durable records.
type Callbacks struct {
	// UpdateData applies one or more committed edits.
	UpdateData func(updates []CellUpdate) error

	// OnRowsDelete deletes rows by view index, sorted ascending.
	OnRowsDelete func(rows []int) error

	// OnRowAdd appends one row. A non-nil position tells the engine
	// which cell to focus and scroll to afterward.
	OnRowAdd func() (*CellPosition, error)

	// OnRowsAdd appends count rows (paste expansion).
	OnRowsAdd func(count int) error

	// OnFilesUpload stores files for a file-variant cell and returns
	// their refs. It may block; hosts run it off the event loop.
	OnFilesUpload func(req FileUploadRequest) ([]FileRef, error)

	// OnFilesDelete removes stored files from a file-variant cell.
	OnFilesDelete func(req FileDeleteRequest) error
}

// ValueFunc reads the current value of a cell from the host's row
// data. It is consulted by copy/cut and by edit-entry seeding.
type ValueFunc func(pos CellPosition) any
