package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h1, err := HashPassword("abcdef")
	require.NoError(t, err)
	h2, err := HashPassword("abcdef")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "hashes are salted")
	assert.True(t, CompareHashAndPassword(h1, "abcdef"))
	assert.False(t, CompareHashAndPassword(h1, "abcdeg"))
}

func TestHashPasswordRejectsLongInput(t *testing.T) {
	// 30 three-byte runes pass a 72 character limit but not bcrypt's 72 bytes
	_, err := HashPassword(strings.Repeat("€", 30))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
