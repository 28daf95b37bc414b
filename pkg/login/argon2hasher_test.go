package login

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	hasher := NewArgon2Hasher()

	hash, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	valid, err := hasher.Verify("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = hasher.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestArgon2Hasher_SaltsAreRandom(t *testing.T) {
	hasher := NewArgon2Hasher()

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	// Per-call random salt means equal passwords never share a hash
	assert.NotEqual(t, first, second)
}

func TestArgon2Hasher_RejectsEmptyInput(t *testing.T) {
	hasher := NewArgon2Hasher()

	_, err := hasher.Hash("")
	assert.Error(t, err)

	_, err = hasher.Verify("", "whatever")
	assert.Error(t, err)

	_, err = hasher.Verify("password", "not-an-argon2-hash")
	assert.Error(t, err)
}
