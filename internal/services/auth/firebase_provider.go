package auth

import (
	"context"
	"fmt"

	"hrblog/internal/domain/models"
	"hrblog/internal/storage"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseClient is the part of the Firebase Admin auth client in use.
type FirebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
}

// FirebaseProvider verifies Firebase ID tokens and reads the admin custom
// claim from the user record. A revoked claim takes effect once the cached
// lookup expires (auth.claims_cache_ttl), not when the token does.
type FirebaseProvider struct {
	client     FirebaseClient
	adminClaim string
}

func NewFirebaseProvider(client FirebaseClient, adminClaim string) *FirebaseProvider {
	return &FirebaseProvider{
		client:     client,
		adminClaim: adminClaim,
	}
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (models.TokenClaims, error) {
	const op = "auth.FirebaseProvider.VerifyToken"

	t, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%s: %w", op, err)
	}

	claims := models.TokenClaims{
		UserID:    t.UID,
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.Expires,
	}
	claims.Email, _ = t.Claims["email"].(string)
	claims.DisplayName, _ = t.Claims["name"].(string)

	return claims, nil
}

func (p *FirebaseProvider) IsAdmin(ctx context.Context, userID string) (bool, error) {
	const op = "auth.FirebaseProvider.IsAdmin"

	rec, err := p.client.GetUser(ctx, userID)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	isAdmin, _ := rec.CustomClaims[p.adminClaim].(bool)
	return isAdmin, nil
}
