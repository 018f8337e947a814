package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/service"
)

// RoleGate admits only admins. It must run after AuthGate and reloads the
// user on every request, so a demotion takes effect immediately.
func RoleGate(users service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := auth.IdentityFrom(c)
			if !ok {
				return forbidden()
			}

			user, err := users.Get(c.Request().Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return forbidden()
				}
				log.Ctx(c.Request().Context()).Error().Err(err).Msg("role gate: load user")
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if !user.IsAdmin() {
				return forbidden()
			}
			return next(c)
		}
	}
}

func forbidden() error {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
