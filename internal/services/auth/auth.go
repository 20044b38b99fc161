package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/metrics"
	"hrblog/internal/storage"

	"github.com/patrickmn/go-cache"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a bearer token and returns the identity it carries.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (models.TokenClaims, error)
}

// ClaimsProvider answers whether a verified user holds the admin claim.
type ClaimsProvider interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Auth struct {
	log      *slog.Logger
	verifier TokenVerifier
	claims   ClaimsProvider
	admins   *cache.Cache
}

// New builds the authenticator. Admin lookups are cached per uid for
// claimsTTL; a zero TTL disables the cache.
func New(log *slog.Logger, verifier TokenVerifier, claims ClaimsProvider, claimsTTL time.Duration) *Auth {
	a := &Auth{
		log:      log,
		verifier: verifier,
		claims:   claims,
	}

	if claimsTTL > 0 {
		a.admins = cache.New(claimsTTL, 2*claimsTTL)
	}

	return a
}

// Authenticate resolves the Authorization header into an admin user.
func (a *Auth) Authenticate(ctx context.Context, header string) (models.User, error) {
	const op = "auth.Authenticate"
	log := a.log.With(slog.String("op", op))

	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	claims, err := a.verifier.VerifyToken(ctx, token)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		log.Info("token rejected", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user := claims.User()
	log = log.With(slog.String("user_id", user.ID))

	isAdmin, err := a.isAdmin(ctx, user.ID)
	if err != nil {
		log.Error("failed to look up admin claim", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !isAdmin {
		metrics.AuthFailuresTotal.WithLabelValues("not_admin").Inc()
		log.Warn("non-admin user rejected")
		return models.User{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	user.IsAdmin = true
	return user, nil
}

func (a *Auth) isAdmin(ctx context.Context, userID string) (bool, error) {
	if a.admins != nil {
		if v, ok := a.admins.Get(userID); ok {
			return v.(bool), nil
		}
	}

	isAdmin, err := a.claims.IsAdmin(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		isAdmin, err = false, nil
	}
	if err != nil {
		return false, err
	}

	if a.admins != nil {
		a.admins.SetDefault(userID, isAdmin)
	}

	return isAdmin, nil
}
