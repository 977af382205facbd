package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestHashPasswordCostOutOfRange(t *testing.T) {
	// 0 and 99 are outside bcrypt's range; hashing still succeeds at
	// the default cost instead of failing or degrading
	for _, cost := range []int{0, -1, 99} {
		hash, err := HashPassword("s3cret", cost)
		require.NoError(t, err, "cost %d", cost)
		assert.True(t, VerifyPassword(hash, "s3cret"), "cost %d", cost)
	}
}
