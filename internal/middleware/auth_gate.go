package middleware

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// AuthGate rejects requests without a valid x-auth-token header and stores
// the verified *auth.Identity on the context.
func AuthGate(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + auth.TokenHeader,
		ContextKey:  auth.IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			msg := msgInvalidToken
			if strings.TrimSpace(c.Request().Header.Get(auth.TokenHeader)) == "" {
				msg = msgNoToken
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Msg:  msg,
				Code: apperrors.CodeForStatus(http.StatusUnauthorized),
			})
		},
	})
}
