// Package cryptox holds the symmetric primitives used by the vault and the
// credential verifier: AES-256-GCM sealing with a prepended nonce, vault key
// generation and encoding, and argon2id password verifiers.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the vault key length in bytes (AES-256).
const KeySize = 32

// GenerateKey returns a fresh random vault key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("rand key: %w", err)
	}
	return key, nil
}

// EncodeKey renders key material as URL-safe base64 for text storage.
func EncodeKey(key []byte) []byte {
	out := make([]byte, base64.URLEncoding.EncodedLen(len(key)))
	base64.URLEncoding.Encode(out, key)
	return out
}

// DecodeKey parses the output of EncodeKey and checks the key length.
func DecodeKey(encoded []byte) ([]byte, error) {
	key := make([]byte, base64.URLEncoding.DecodedLen(len(encoded)))
	n, err := base64.URLEncoding.Decode(key, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	key = key[:n]
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", common.ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with AES-256-GCM under key. A random 12-byte nonce
// is generated per call and prepended, so the output layout is
// nonce || ciphertext || tag.
func Seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Any authentication failure (flipped bit, truncation,
// wrong key) is reported as common.ErrDecryptionFailed and no plaintext is
// returned.
func Open(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailed)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// DeriveVerifier stretches password with argon2id (t=1, 64 MiB, 4 lanes)
// into a 32-byte verifier bound to salt.
func DeriveVerifier(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Fingerprint returns a short, non-secret identifier for key material that
// is safe to log.
func Fingerprint(key []byte) string {
	sum := sha256.Sum256(key)
	return base64.RawURLEncoding.EncodeToString(sum[:6])
}
