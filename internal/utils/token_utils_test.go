package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("u1", "secret", time.Hour, utils.TokenIssuer)
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, utils.TokenIssuer, claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	expired, err := utils.GenerateJWT("u1", "secret", -time.Minute, utils.TokenIssuer)
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := utils.GenerateJWT("u1", "secret", time.Hour, utils.TokenIssuer)
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(noSubject, "secret")
	assert.ErrorIs(t, err, utils.ErrEmptySubject)
}

func TestGenerateJWT_RequiresSecretAndSubject(t *testing.T) {
	_, err := utils.GenerateJWT("u1", "", time.Hour, utils.TokenIssuer)
	assert.Error(t, err)
	_, err = utils.GenerateJWT("", "secret", time.Hour, utils.TokenIssuer)
	assert.ErrorIs(t, err, utils.ErrEmptySubject)
}

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}
