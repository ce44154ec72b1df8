package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	require.Len(t, a, 32)
	require.Len(t, b, 32)
	if bytes.Equal(a, b) {
		t.Logf("warning: two GenerateRandByteArray(32) results are identical; extremely unlikely")
	}
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("super-secret")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, len("super-secret")), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrorNotFound, ErrAlreadyExists, ErrDecryptionFailed, ErrInvalidName} {
		wrapped := fmt.Errorf("vault: %w", sentinel)
		assert.True(t, errors.Is(wrapped, sentinel), sentinel.Error())
	}
	assert.False(t, errors.Is(ErrorNotFound, ErrDecryptionFailed))
}
