package repomanager

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/shadowshield/internal/filex"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/keys"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/profiles"
)

// FileRepositoryManager keeps the profile in <dataDir>/user_data.json and the
// key in <dataDir>/vault/key.key.
type FileRepositoryManager struct {
	dataDir  string
	profiles *profiles.FileRepository
	keys     *keys.FileRepository
}

func NewFileRepositoryManager(dataDir string, log logging.Logger) *FileRepositoryManager {
	return &FileRepositoryManager{
		dataDir:  dataDir,
		profiles: profiles.NewFileRepository(filepath.Join(dataDir, ProfileFileName), log),
		keys:     keys.NewFileRepository(filepath.Join(dataDir, VaultDirName)),
	}
}

// RunMigrations creates the data and vault directories.
func (m *FileRepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := filex.EnsureDir(filepath.Join(m.dataDir, VaultDirName))
	return err
}

func (m *FileRepositoryManager) Profiles() profiles.Repository { return m.profiles }

func (m *FileRepositoryManager) Keys() keys.Repository { return m.keys }

func (m *FileRepositoryManager) Close() error { return nil }
