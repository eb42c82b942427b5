// Package store is the demo data layer feeding the grid engine: sheets
// are automerge documents on disk, SQL queries over them run through an
// in-memory sqlite database, and file-variant attachments live next to
// their document.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/automerge/automerge-go"
)

// DocInfo summarizes one stored document for the library view.
type DocInfo struct {
	ID      string
	Title   string
	Path    string // directory containing snapshot/incremental
	ModTime time.Time
	Size    int64
	Cols    int
	Rows    int
}

// Discover lists the documents under baseDir, newest first. Documents
// are sharded two levels deep by id prefix.
func Discover(baseDir string) ([]DocInfo, error) {
	var docs []DocInfo

	prefixes, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("read sheet dir %s: %w", baseDir, err)
	}

	for _, prefix := range prefixes {
		if !prefix.IsDir() {
			continue
		}
		prefixPath := filepath.Join(baseDir, prefix.Name())
		entries, err := os.ReadDir(prefixPath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			docID := prefix.Name() + entry.Name()
			docPath := filepath.Join(prefixPath, entry.Name())

			info, err := entry.Info()
			if err != nil {
				continue
			}
			doc, size, err := LoadDoc(docPath)
			if err != nil {
				continue
			}

			di := DocInfo{
				ID:      docID,
				Path:    docPath,
				ModTime: info.ModTime(),
				Size:    size,
			}
			if cols, rows, err := readTable(doc); err == nil {
				di.Cols = len(cols)
				di.Rows = len(rows)
				di.Title = sheetTitle(cols)
			}
			docs = append(docs, di)
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ModTime.After(docs[j].ModTime)
	})
	return docs, nil
}

// LoadDoc reads a document from its snapshot plus any incrementals.
func LoadDoc(docPath string) (*automerge.Doc, int64, error) {
	var doc *automerge.Doc
	var totalSize int64

	// snapshot first
	snapDir := filepath.Join(docPath, "snapshot")
	if entries, err := os.ReadDir(snapDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(snapDir, e.Name()))
			if err != nil {
				continue
			}
			totalSize += int64(len(data))
			doc, err = automerge.Load(data)
			if err != nil {
				return nil, 0, fmt.Errorf("load snapshot: %w", err)
			}
			break // only one snapshot
		}
	}

	// apply incrementals
	incDir := filepath.Join(docPath, "incremental")
	if entries, err := os.ReadDir(incDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(incDir, e.Name()))
			if err != nil {
				continue
			}
			totalSize += int64(len(data))
			if doc == nil {
				doc, err = automerge.Load(data)
				if err != nil {
					return nil, 0, fmt.Errorf("load incremental as doc: %w", err)
				}
			} else {
				doc.LoadIncremental(data)
			}
		}
	}

	if doc == nil {
		return nil, 0, fmt.Errorf("no data found in %s", docPath)
	}
	return doc, totalSize, nil
}

// SaveDoc writes a fresh snapshot, superseding incrementals.
func SaveDoc(doc *automerge.Doc, docPath string) error {
	data := doc.Save()
	snapDir := filepath.Join(docPath, "snapshot")
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return fmt.Errorf("mkdir snapshot: %w", err)
	}

	if entries, err := os.ReadDir(snapDir); err == nil {
		for _, e := range entries {
			os.Remove(filepath.Join(snapDir, e.Name()))
		}
	}
	incDir := filepath.Join(docPath, "incremental")
	if entries, err := os.ReadDir(incDir); err == nil {
		for _, e := range entries {
			os.Remove(filepath.Join(incDir, e.Name()))
		}
	}
	os.Remove(incDir)

	return os.WriteFile(filepath.Join(snapDir, "snapshot"), data, 0o644)
}

// DeleteDoc removes a document directory entirely.
func DeleteDoc(docPath string) error {
	return os.RemoveAll(docPath)
}

// DocPath returns the sharded directory of a document id.
func DocPath(dataDir, docID string) string {
	if len(docID) < 2 {
		return filepath.Join(dataDir, docID)
	}
	return filepath.Join(dataDir, docID[:2], docID[2:])
}

func newDocID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
