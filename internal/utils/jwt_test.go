package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseClaims(t *testing.T, secret, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("s3cret", 42, "controller", 15)
	require.NoError(t, err)

	claims := parseClaims(t, "s3cret", at.Token)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "controller", claims["role"])
	assert.Nil(t, claims["temp"])
}

func TestNewTempTokenCarriesTempClaimAndNoRole(t *testing.T) {
	at, err := NewTempToken("s3cret", 42, 10)
	require.NoError(t, err)

	claims := parseClaims(t, "s3cret", at.Token)
	assert.Equal(t, true, claims["temp"])
	assert.Nil(t, claims["role"])
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)
	assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))

	other, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestValidSecret(t *testing.T) {
	assert.True(t, ValidSecret("0412"))
	for _, s := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		assert.False(t, ValidSecret(s), s)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}
