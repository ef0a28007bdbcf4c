package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := auth.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("testpass")
	require.NoError(t, err)
	assert.NotEqual(t, "testpass", hash)

	assert.True(t, h.Verify("testpass", hash))
	assert.False(t, h.Verify("testPass", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := auth.NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same-password", a))
	assert.True(t, h.Verify("same-password", b))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := auth.NewBcryptHasher(0)

	for _, hash := range []string{"", "plaintext", "$2a$10$short", "$2a$99$" + string(make([]byte, 53))} {
		assert.False(t, h.Verify("anything", hash), "hash %q", hash)
	}
}
