package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndVerify(t *testing.T) {
	m := NewManager("thisismynewcourse", 0)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Nil(t, claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_TokensAreUnique(t *testing.T) {
	m := NewManager("secret", 0)

	a, err := m.Generate("user-1")
	require.NoError(t, err)
	b, err := m.Generate("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestManager_VerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 0).Generate("user-1")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 0).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "user-1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", 0).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyRejectsMissingIdentity(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", 0).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", 0).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
