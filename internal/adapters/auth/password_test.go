package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 64, "salt is 32 hex-encoded bytes")

	hash, err := hasher.Hash(salt, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	require.NoError(t, hasher.Compare(hash, salt, "correct horse"))
	require.Error(t, hasher.Compare(hash, salt, "wrong password"))
	require.Error(t, hasher.Compare(hash, "different-salt", "correct horse"))
}

func TestBcryptHasher_SaltsAreUnique(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	a, err := hasher.GenerateSalt()
	require.NoError(t, err)
	b, err := hasher.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_LongPasswords(t *testing.T) {
	// The SHA256 pre-hash keeps the bcrypt input at 64 bytes, so passwords
	// beyond bcrypt's 72-byte limit still work.
	hasher := NewBcryptHasher(bcrypt.MinCost)

	long := make([]byte, 200)
	for i := range long {
		long[i] = byte('a' + i%26)
	}

	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	hash, err := hasher.Hash(salt, string(long))
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, salt, string(long)))
	require.Error(t, hasher.Compare(hash, salt, string(long[:199])))
}
