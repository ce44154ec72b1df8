package blobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/filex"
)

// FileRepository keeps each blob as a file in dir. Files that the vault does
// not own (the key file, temporaries) are filtered out by List's suffix.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// path maps name into dir, refusing anything that would leave it.
func (r *FileRepository) path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(r.dir, name), true
}

func (r *FileRepository) Create(ctx context.Context, name string, data []byte) error {
	p, ok := r.path(name)
	if !ok {
		return common.ErrInvalidName
	}
	if _, err := filex.EnsureDir(r.dir); err != nil {
		return err
	}
	return filex.WriteNew(p, data, 0o600)
}

func (r *FileRepository) Get(ctx context.Context, name string) ([]byte, error) {
	p, ok := r.path(name)
	if !ok {
		return nil, common.ErrorNotFound
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

func (r *FileRepository) List(ctx context.Context, suffix string) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list vault: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
