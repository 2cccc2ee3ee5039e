package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePair(t *testing.T) {
	pair, err := GeneratePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)

	// refresh 不能当 access 用（密钥不同）
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	next, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := ParseAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)

	// access 不是合法的 refresh
	_, err = Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseAccessGarbage(t *testing.T) {
	_, err := ParseAccess("not-a-token")
	assert.Error(t, err)
}

func TestRandDigits(t *testing.T) {
	s, err := RandDigits(16)
	require.NoError(t, err)
	require.Len(t, s, 16)
	for _, ch := range s {
		assert.True(t, ch >= '0' && ch <= '9')
	}
}
