// Package profiles persists the behavioral profile, either as a JSON file or
// as a row in PostgreSQL.
package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/models"
)

// writeFile is a seam for tests.
var writeFile = atomic.WriteFile

// FileRepository keeps the profile in a single JSON file. Updates are
// serialized by a mutex and written with an atomic rename, so a crash leaves
// either the old or the new profile on disk.
type FileRepository struct {
	path string
	log  logging.Logger
	mu   sync.Mutex
}

func NewFileRepository(path string, log logging.Logger) *FileRepository {
	return &FileRepository{path: path, log: log.With("module", "profiles")}
}

func (r *FileRepository) Ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok, err := r.load(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return r.save(p)
}

func (r *FileRepository) Get(ctx context.Context) (models.BehaviorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, _, err := r.load(ctx)
	return p, err
}

func (r *FileRepository) Update(ctx context.Context, fn func(p *models.BehaviorProfile) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&p); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.save(p)
}

// load reads the profile. ok is false when the file is missing or does not
// hold valid JSON, in which case the default profile is returned.
func (r *FileRepository) load(ctx context.Context) (models.BehaviorProfile, bool, error) {
	var p models.BehaviorProfile

	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("read profile: %w", err)
	}

	if err := json.Unmarshal(b, &p); err != nil {
		r.log.Warn(ctx, "profile file is corrupt, resetting to default", "path", r.path, "error", err)
		return models.BehaviorProfile{}, false, nil
	}
	return p, true, nil
}

func (r *FileRepository) save(p models.BehaviorProfile) error {
	b, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := writeFile(r.path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
