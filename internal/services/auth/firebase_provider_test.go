package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFirebaseClient struct {
	mock.Mock
}

func (m *MockFirebaseClient) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fbauth.Token), args.Error(1)
}

func (m *MockFirebaseClient) GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fbauth.UserRecord), args.Error(1)
}

func TestFirebaseProvider_VerifyToken(t *testing.T) {
	ctx := context.Background()

	t.Run("claims mapped", func(t *testing.T) {
		client := new(MockFirebaseClient)
		client.On("VerifyIDToken", ctx, "id-token").Return(&fbauth.Token{
			UID:      "fb-uid",
			IssuedAt: 1741944600,
			Expires:  1741948200,
			Claims:   map[string]interface{}{"email": "ik@example.com", "name": "İK Ekibi"},
		}, nil).Once()

		claims, err := NewFirebaseProvider(client, "admin").VerifyToken(ctx, "id-token")

		require.NoError(t, err)
		assert.Equal(t, "fb-uid", claims.UserID)
		assert.Equal(t, "ik@example.com", claims.Email)
		assert.Equal(t, "İK Ekibi", claims.DisplayName)
		assert.Equal(t, int64(1741948200), claims.ExpiresAt)
	})

	t.Run("rejected", func(t *testing.T) {
		client := new(MockFirebaseClient)
		verifyErr := errors.New("ID token has expired")
		client.On("VerifyIDToken", ctx, "old").Return(nil, verifyErr).Once()

		_, err := NewFirebaseProvider(client, "admin").VerifyToken(ctx, "old")

		assert.ErrorIs(t, err, verifyErr)
	})
}

func TestFirebaseProvider_IsAdmin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		claims map[string]interface{}
		want   bool
	}{
		{name: "claim true", claims: map[string]interface{}{"admin": true}, want: true},
		{name: "claim false", claims: map[string]interface{}{"admin": false}, want: false},
		{name: "claim not bool", claims: map[string]interface{}{"admin": "true"}, want: false},
		{name: "no claims", claims: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockFirebaseClient)
			client.On("GetUser", ctx, "fb-uid").Return(&fbauth.UserRecord{
				UserInfo:     &fbauth.UserInfo{UID: "fb-uid"},
				CustomClaims: tt.claims,
			}, nil).Once()

			isAdmin, err := NewFirebaseProvider(client, "admin").IsAdmin(ctx, "fb-uid")

			require.NoError(t, err)
			assert.Equal(t, tt.want, isAdmin)
		})
	}

	t.Run("lookup error", func(t *testing.T) {
		client := new(MockFirebaseClient)
		lookupErr := errors.New("quota exceeded")
		client.On("GetUser", ctx, "fb-uid").Return(nil, lookupErr).Once()

		_, err := NewFirebaseProvider(client, "admin").IsAdmin(ctx, "fb-uid")

		assert.ErrorIs(t, err, lookupErr)
	})
}
