package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/cryptox"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/keys"
)

// generateKey is a seam for tests.
var generateKey = cryptox.GenerateKey

// KeyManager is the only source of vault key material. The key is created
// once, on first use, and then cached for the life of the process.
type KeyManager struct {
	repo keys.Repository
	log  logging.Logger

	mu  sync.Mutex
	key []byte
}

func NewKeyManager(repo keys.Repository, log logging.Logger) *KeyManager {
	return &KeyManager{repo: repo, log: log.With("module", "keys")}
}

// EnsureKey returns the persisted key, generating and storing one if none
// exists. Concurrent callers, in this process or another, agree on one key.
func (m *KeyManager) EnsureKey(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return m.key, nil
	}

	key, err := m.repo.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		fresh, gerr := generateKey()
		if gerr != nil {
			return nil, gerr
		}
		key, err = m.repo.CreateIfAbsent(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("store key: %w", err)
		}
		if bytes.Equal(key, fresh) {
			m.log.Info(ctx, "vault key generated", "fingerprint", cryptox.Fingerprint(key))
		}
	default:
		return nil, fmt.Errorf("load key: %w", err)
	}

	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("%w: stored key has %d bytes", common.ErrInvalidKey, len(key))
	}

	m.key = key
	return key, nil
}

// LoadKey returns the key for a crypto operation, ensuring it first.
func (m *KeyManager) LoadKey(ctx context.Context) ([]byte, error) {
	return m.EnsureKey(ctx)
}
