package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/cryptox"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/blobs"
)

// KeyLoader hands out the vault key.
type KeyLoader interface {
	LoadKey(ctx context.Context) ([]byte, error)
}

// VaultService encrypts uploads into the blob store and decrypts them back.
type VaultService struct {
	blobs blobs.Repository
	keys  KeyLoader
	log   logging.Logger
	now   func() time.Time
}

func NewVaultService(b blobs.Repository, k KeyLoader, log logging.Logger) *VaultService {
	return &VaultService{
		blobs: b,
		keys:  k,
		log:   log.With("module", "vault"),
		now:   time.Now,
	}
}

// SafeName replaces path separators in an upload filename with "_".
func SafeName(filename string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(filename)
}

// OriginalName strips the vault suffix from a stored name.
func OriginalName(stored string) string {
	return strings.TrimSuffix(stored, common.VaultSuffix)
}

// Store encrypts plaintext and saves it as <safe>.enc, or as
// <safe>_<unix seconds>.enc if that name is taken. If the second name is
// taken as well, common.ErrAlreadyExists is returned and nothing is written.
func (s *VaultService) Store(ctx context.Context, filename string, plaintext []byte) (string, error) {
	if filename == "" {
		return "", common.ErrInvalidName
	}
	safe := SafeName(filename)

	key, err := s.keys.LoadKey(ctx)
	if err != nil {
		return "", err
	}
	sealed, err := cryptox.Seal(key, plaintext)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	name := safe + common.VaultSuffix
	err = s.blobs.Create(ctx, name, sealed)
	if errors.Is(err, common.ErrAlreadyExists) {
		name = fmt.Sprintf("%s_%d%s", safe, s.now().Unix(), common.VaultSuffix)
		err = s.blobs.Create(ctx, name, sealed)
	}
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "file stored", "vault_filename", name, "size", len(plaintext))
	return name, nil
}

// List returns the stored entry names in lexical order.
func (s *VaultService) List(ctx context.Context) ([]string, error) {
	names, err := s.blobs.List(ctx, common.VaultSuffix)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Retrieve decrypts the entry stored under name and returns the plaintext
// with its original filename. Names that are not vault entries yield
// common.ErrorNotFound; ciphertext that fails authentication yields
// common.ErrDecryptionFailed.
func (s *VaultService) Retrieve(ctx context.Context, name string) ([]byte, string, error) {
	if !validStoredName(name) {
		return nil, "", common.ErrorNotFound
	}

	sealed, err := s.blobs.Get(ctx, name)
	if err != nil {
		return nil, "", err
	}

	key, err := s.keys.LoadKey(ctx)
	if err != nil {
		return nil, "", err
	}

	plaintext, err := cryptox.Open(key, sealed)
	if err != nil {
		s.log.Warn(ctx, "vault entry failed authentication", "vault_filename", name)
		return nil, "", err
	}
	return plaintext, OriginalName(name), nil
}

func validStoredName(name string) bool {
	return strings.HasSuffix(name, common.VaultSuffix) &&
		len(name) > len(common.VaultSuffix) &&
		!strings.ContainsAny(name, `/\`)
}
