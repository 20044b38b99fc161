package jwt

import (
	"errors"
	"fmt"
	"time"

	"hrblog/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken signs an HS256 token carrying the user's uid, email and name.
func NewToken(user models.User, secret string, duration time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   user.ID,
		"email": user.Email,
		"name":  user.DisplayName,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the identity claims.
func ParseToken(tokenString, secret string) (models.TokenClaims, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return models.TokenClaims{}, fmt.Errorf("%w: missing uid", ErrInvalidToken)
	}

	out := models.TokenClaims{UserID: uid}
	out.Email, _ = claims["email"].(string)
	out.DisplayName, _ = claims["name"].(string)

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Unix()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Unix()
	}

	return out, nil
}
