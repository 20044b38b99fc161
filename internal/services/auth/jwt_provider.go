package auth

import (
	"context"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/jwt"
)

// JWTVerifier accepts HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) VerifyToken(_ context.Context, token string) (models.TokenClaims, error) {
	return jwt.ParseToken(token, v.secret)
}
