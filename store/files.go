package store

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadmann7/tablecn-sub001/grid"
)

// SaveFiles stores uploaded files under <docPath>/<filesDir> and
// returns their refs. Each file is named <id>-<name> so deletion can
// find it by id alone.
func SaveFiles(docPath, filesDir string, req grid.FileUploadRequest) ([]grid.FileRef, error) {
	dir := filepath.Join(docPath, filesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir files: %w", err)
	}

	refs := make([]grid.FileRef, 0, len(req.Files))
	for _, f := range req.Files {
		id := newDocID()
		name := sanitizeFileName(f.Name)
		path := filepath.Join(dir, id+"-"+name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			// roll back files already written so a failed batch leaves
			// no orphans behind
			for _, r := range refs {
				os.Remove(r.URL)
			}
			return nil, fmt.Errorf("write file %s: %w", name, err)
		}
		contentType := f.Type
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(name))
		}
		refs = append(refs, grid.FileRef{
			ID:   id,
			Name: name,
			Size: int64(len(f.Data)),
			Type: contentType,
			URL:  path,
		})
	}
	return refs, nil
}

// DeleteFiles removes stored files by id.
func DeleteFiles(docPath, filesDir string, req grid.FileDeleteRequest) error {
	dir := filepath.Join(docPath, filesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read files dir: %w", err)
	}
	wanted := make(map[string]bool, len(req.FileIDs))
	for _, id := range req.FileIDs {
		wanted[id] = true
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, _, ok := strings.Cut(e.Name(), "-")
		if ok && wanted[id] {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("remove %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '\x00':
			return '_'
		}
		return r
	}, name)
}
