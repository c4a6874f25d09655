package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/openmodel/pkg/identity"
)

const fileExt = ".json"

// FileStore implements a file-based store for CLI usage.
// Documents are stored as files named by ID, spread over subdirectories
// by the first two characters of the ID to avoid huge directories.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// Get reads the file stored for id.
func (s *FileStore) Get(ctx context.Context, id identity.ID) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	return data, err
}

// Put writes data to a temporary file and renames it into place, so
// readers never see a partial document.
func (s *FileStore) Put(ctx context.Context, id identity.ID, data []byte) error {
	path := s.path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the file stored for id.
func (s *FileStore) Delete(ctx context.Context, id identity.ID) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	return err
}

// List walks the store directory. Files whose names are not document IDs
// are skipped.
func (s *FileStore) List(ctx context.Context) ([]identity.ID, error) {
	var ids []identity.ID
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name, ok := strings.CutSuffix(d.Name(), fileExt)
		if d.IsDir() || !ok {
			return nil
		}
		if id, err := identity.Parse(name); err == nil {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(ids, identity.Compare)
	return ids, nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// path converts an ID to a file path.
func (s *FileStore) path(id identity.ID) string {
	name := id.String()
	return filepath.Join(s.dir, name[:2], name+fileExt)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
