package jwt

import (
	"testing"
	"time"

	"hrblog/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testUser = models.User{ID: "uid-1", Email: "editor@example.com", DisplayName: "Editör"}

func TestNewToken_ParseToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	token, err := NewToken(testUser, testSecret, time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "editor@example.com", claims.Email)
	assert.Equal(t, "Editör", claims.DisplayName)
	assert.Equal(t, now.Unix(), claims.IssuedAt)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt)
	assert.Equal(t, testUser, claims.User())
}

func TestParseToken_Rejects(t *testing.T) {
	now := time.Now()

	expired, err := NewToken(testUser, testSecret, time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)

	otherKey, err := NewToken(testUser, "other-secret", time.Hour, now)
	require.NoError(t, err)

	noUID, err := NewToken(models.User{Email: "x@example.com"}, testSecret, time.Hour, now)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "uid-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": "uid-1",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": otherKey,
		"missing uid":  noUID,
		"missing exp":  noExp,
		"alg none":     unsigned,
		"garbage":      "not.a.token",
		"empty":        "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token, testSecret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewToken_EmptySecret(t *testing.T) {
	_, err := NewToken(testUser, "", time.Hour, time.Now())
	assert.Error(t, err)
}
