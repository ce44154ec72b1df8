// Package auth contains the credential factor of the login flow.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/cryptox"
)

const saltSize = 16

// CredentialVerifier checks a username/password pair. Implementations return
// common.ErrorUnauthorized for wrong credentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

// StaticVerifier accepts exactly one configured username and password. The
// password is kept only as an argon2id verifier under a per-process salt.
type StaticVerifier struct {
	username []byte
	salt     []byte
	verifier []byte
}

// NewStaticVerifier derives the verifier for password.
func NewStaticVerifier(username, password string) (*StaticVerifier, error) {
	if username == "" {
		return nil, errors.New("username must not be empty")
	}
	salt := common.GenerateRandByteArray(saltSize)
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	return &StaticVerifier{
		username: []byte(username),
		salt:     salt,
		verifier: cryptox.DeriveVerifier(pw, salt),
	}, nil
}

// Verify compares both fields in constant time. The verifier is always
// derived so the response time does not depend on the username.
func (v *StaticVerifier) Verify(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pw := []byte(password)
	candidate := cryptox.DeriveVerifier(pw, v.salt)
	common.WipeByteArray(pw)

	userOK := subtle.ConstantTimeCompare([]byte(username), v.username)
	passOK := subtle.ConstantTimeCompare(candidate, v.verifier)
	if userOK&passOK != 1 {
		return common.ErrorUnauthorized
	}
	return nil
}
