// Package repomanager selects and wires the storage backends configured for
// the server.
package repomanager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/config"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/blobs"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/keys"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/profiles"
)

const (
	ProfileFileName = "user_data.json"
	VaultDirName    = "vault"
)

// RepositoryManager vends the profile and key repositories of one backend.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Profiles() profiles.Repository
	Keys() keys.Repository
	Close() error
}

// New returns the manager for cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return NewFileRepositoryManager(cfg.DataDir, log), nil
	case config.BackendPostgres:
		m, err := NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// NewBlobRepository returns the vault entry store for cfg.VaultBackend.
func NewBlobRepository(ctx context.Context, cfg *config.Config) (blobs.Repository, error) {
	switch cfg.VaultBackend {
	case config.BackendFile:
		return blobs.NewFileRepository(filepath.Join(cfg.DataDir, VaultDirName)), nil
	case config.BackendS3:
		r, err := blobs.NewS3Repository(ctx, blobs.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown vault backend %q", cfg.VaultBackend)
	}
}
