package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/shadowshield/internal/client/client"
	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/filex"
)

// VaultService moves files between the local disk and the server vault.
type VaultService interface {
	Upload(ctx context.Context, path string) (string, error)
	List(ctx context.Context) ([]string, error)
	Download(ctx context.Context, vaultName, destDir string) (string, error)
}

type vaultService struct {
	client client.Client
}

func NewVaultService(client client.Client) VaultService {
	return &vaultService{client: client}
}

// Upload sends the file at path under its base name and returns the vault
// name assigned by the server.
func (s *vaultService) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	name, err := s.client.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return name, nil
}

func (s *vaultService) List(ctx context.Context) ([]string, error) {
	return s.client.List(ctx)
}

// Download decrypts vaultName on the server and writes it into destDir under
// the original filename. An existing file is never overwritten.
func (s *vaultService) Download(ctx context.Context, vaultName, destDir string) (string, error) {
	data, name, err := s.client.Download(ctx, vaultName)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer common.WipeByteArray(data)

	// The server suggests the name; keep only its last element.
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return "", common.ErrInvalidName
	}

	dir, err := filex.EnsureDir(destDir)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(dir, name)
	if err := filex.WriteNew(dest, data, 0o600); err != nil {
		return "", fmt.Errorf("save %s: %w", dest, err)
	}
	return dest, nil
}
