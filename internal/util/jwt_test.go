package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("sandy@example.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sandy@example.com", email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("sandy@example.com", "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	r, _ := http.NewRequest("GET", "/", nil)
	assert.Equal(t, "", ExtractToken(r))

	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(r))

	r.Header.Set("Authorization", "Basic abc123")
	assert.Equal(t, "", ExtractToken(r))

	r.Header.Set("Authorization", "bearer xyz")
	assert.Equal(t, "xyz", ExtractToken(r))
}
