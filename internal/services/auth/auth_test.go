package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/jwt"
	"hrblog/internal/lib/logger/handlers/slogdiscard"
	"hrblog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) (models.TokenClaims, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.TokenClaims), args.Error(1)
}

type MockClaimsProvider struct {
	mock.Mock
}

func (m *MockClaimsProvider) IsAdmin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

var editorClaims = models.TokenClaims{UserID: "uid-1", Email: "editor@example.com", DisplayName: "Editör"}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin accepted", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		verifier.On("VerifyToken", ctx, "good").Return(editorClaims, nil).Once()
		claims.On("IsAdmin", ctx, "uid-1").Return(true, nil).Once()

		user, err := a.Authenticate(ctx, "Bearer good")

		require.NoError(t, err)
		assert.Equal(t, models.User{ID: "uid-1", Email: "editor@example.com", DisplayName: "Editör", IsAdmin: true}, user)
		verifier.AssertExpectations(t)
		claims.AssertExpectations(t)
	})

	t.Run("malformed headers", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		for _, header := range []string{"", "good", "bearer good", "Basic Zm9vOmJhcg==", "Bearer ", "Bearer    "} {
			_, err := a.Authenticate(ctx, header)
			assert.ErrorIs(t, err, ErrUnauthorized, header)
		}

		verifier.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
	})

	t.Run("invalid token", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		verifier.On("VerifyToken", ctx, "bad").Return(models.TokenClaims{}, jwt.ErrInvalidToken).Once()

		_, err := a.Authenticate(ctx, "Bearer bad")

		assert.ErrorIs(t, err, ErrUnauthorized)
		claims.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything)
	})

	t.Run("non admin forbidden", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		verifier.On("VerifyToken", ctx, "reader").Return(editorClaims, nil).Once()
		claims.On("IsAdmin", ctx, "uid-1").Return(false, nil).Once()

		_, err := a.Authenticate(ctx, "Bearer reader")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown user forbidden", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		verifier.On("VerifyToken", ctx, "ghost").Return(editorClaims, nil).Once()
		claims.On("IsAdmin", ctx, "uid-1").Return(false, storage.ErrUserNotFound).Once()

		_, err := a.Authenticate(ctx, "Bearer ghost")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("lookup failure is not an auth error", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)
		lookupErr := errors.New("db down")

		verifier.On("VerifyToken", ctx, "good").Return(editorClaims, nil).Once()
		claims.On("IsAdmin", ctx, "uid-1").Return(false, lookupErr).Once()

		_, err := a.Authenticate(ctx, "Bearer good")

		assert.ErrorIs(t, err, lookupErr)
		assert.NotErrorIs(t, err, ErrUnauthorized)
		assert.NotErrorIs(t, err, ErrForbidden)
	})
}

func TestAuth_AdminClaimCached(t *testing.T) {
	ctx := context.Background()

	t.Run("cached within ttl", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, time.Minute)

		verifier.On("VerifyToken", ctx, "good").Return(editorClaims, nil).Twice()
		claims.On("IsAdmin", ctx, "uid-1").Return(true, nil).Once()

		for i := 0; i < 2; i++ {
			_, err := a.Authenticate(ctx, "Bearer good")
			require.NoError(t, err)
		}

		claims.AssertNumberOfCalls(t, "IsAdmin", 1)
	})

	t.Run("zero ttl disables cache", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, 0)

		verifier.On("VerifyToken", ctx, "good").Return(editorClaims, nil).Twice()
		claims.On("IsAdmin", ctx, "uid-1").Return(true, nil).Twice()

		for i := 0; i < 2; i++ {
			_, err := a.Authenticate(ctx, "Bearer good")
			require.NoError(t, err)
		}

		claims.AssertNumberOfCalls(t, "IsAdmin", 2)
	})

	t.Run("revoked claim applies after ttl", func(t *testing.T) {
		verifier, claims := new(MockTokenVerifier), new(MockClaimsProvider)
		a := New(slogdiscard.NewDiscardLogger(), verifier, claims, 50*time.Millisecond)

		verifier.On("VerifyToken", ctx, "good").Return(editorClaims, nil)
		claims.On("IsAdmin", ctx, "uid-1").Return(true, nil).Once()
		claims.On("IsAdmin", ctx, "uid-1").Return(false, nil).Once()

		_, err := a.Authenticate(ctx, "Bearer good")
		require.NoError(t, err)

		_, err = a.Authenticate(ctx, "Bearer good")
		require.NoError(t, err, "cached admin claim still in effect")

		time.Sleep(100 * time.Millisecond)

		_, err = a.Authenticate(ctx, "Bearer good")
		assert.ErrorIs(t, err, ErrForbidden)
		claims.AssertNumberOfCalls(t, "IsAdmin", 2)
	})
}

func TestJWTVerifier(t *testing.T) {
	now := time.Now()
	token, err := jwt.NewToken(models.User{ID: "uid-1", Email: "editor@example.com"}, "s3cret", time.Hour, now)
	require.NoError(t, err)

	claims, err := NewJWTVerifier("s3cret").VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)

	_, err = NewJWTVerifier("other").VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
