package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hrblog/internal/domain/models"
	"hrblog/internal/lib/logger/sl"
	"hrblog/internal/services/auth"
	"hrblog/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (models.User, error)
}

// AdminOnly rejects requests without a bearer token of an admin user and
// stores the resolved user for the handler.
func AdminOnly(log *slog.Logger, a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := a.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			switch {
			case errors.Is(err, auth.ErrUnauthorized):
				return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
			case errors.Is(err, auth.ErrForbidden):
				return c.JSON(http.StatusForbidden, response.ErrForbidden)
			case err != nil:
				log.Error("authentication failed", slog.String("op", "middleware.AdminOnly"), sl.Err(err))
				return c.JSON(http.StatusInternalServerError, response.ErrInternal)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user stored by AdminOnly.
func UserFromContext(c echo.Context) (models.User, bool) {
	user, ok := c.Get(userContextKey).(models.User)
	return user, ok
}
