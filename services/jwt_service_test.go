package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	tokenString, err := svc.GenerateToken(42, "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.True(t, token.Valid)
}

func TestExtractClaims(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	tokenString, err := svc.GenerateToken(42, "vendor")
	require.NoError(t, err)

	claims, err := svc.ExtractClaims(tokenString)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "vendor", claims.Role)
	assert.Equal(t, "bottle-collection-system-backend", claims.Issuer)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	other := newTestConfig()
	other.JWTSecretKey = "another_secret"
	otherSvc := NewJWTService(other)

	tokenString, err := otherSvc.GenerateToken(42, "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
