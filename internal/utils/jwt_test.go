package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(42, "user@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret")

	_, err := ValidateJWT("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("secret-one")
	token, err := GenerateJWT(7, "admin@example.com", "admin")
	require.NoError(t, err)

	SetJWTSecret("secret-two")
	_, err = ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWTRejectsWrongAlgorithm(t *testing.T) {
	SetJWTSecret("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
