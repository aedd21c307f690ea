package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// LocalStorage stores files on the local filesystem. Intended for
// non-production targets; files are served from baseURL by the HTTP layer.
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, baseURL string) *LocalStorage {
	return &LocalStorage{basePath: basePath, baseURL: baseURL}
}

func (s *LocalStorage) Upload(_ context.Context, folder, filename, _ string, r io.Reader) (*StoredObject, error) {
	dir := filepath.Join(s.basePath, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	name := objectName(filename)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		// A write that fails mid-stream must not be linkable.
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close file: %w", err)
	}

	id := folder + "/" + name
	return &StoredObject{
		PublicURL: s.baseURL + "/" + id,
		ID:        id,
	}, nil
}

func (s *LocalStorage) Delete(_ context.Context, id string) bool {
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(id)))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("delete %s: %v", id, err)
		}
		return false
	}
	return true
}

var _ MediaStorage = (*LocalStorage)(nil)
