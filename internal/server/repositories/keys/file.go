package keys

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/cryptox"
	"github.com/dmitrijs2005/shadowshield/internal/filex"
)

// FileName is the key file name inside the vault directory.
const FileName = "key.key"

// FileRepository keeps the key base64-encoded in <dir>/key.key.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

func (r *FileRepository) path() string { return filepath.Join(r.dir, FileName) }

func (r *FileRepository) Get(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(r.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return cryptox.DecodeKey(bytes.TrimSpace(b))
}

func (r *FileRepository) CreateIfAbsent(ctx context.Context, key []byte) ([]byte, error) {
	if _, err := filex.EnsureDir(r.dir); err != nil {
		return nil, err
	}

	err := filex.WriteNew(r.path(), cryptox.EncodeKey(key), 0o600)
	switch {
	case err == nil:
		return key, nil
	case errors.Is(err, common.ErrAlreadyExists):
		return r.Get(ctx)
	default:
		return nil, fmt.Errorf("write key: %w", err)
	}
}
