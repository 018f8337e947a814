package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "bistro/internal/errors"
)

// MessageResponse is the body of simple acknowledgements.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// fail converts a service error into an echo HTTP error, logging server-side
// failures with their detail.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Ctx(c.Request().Context()).Error().Err(err).
			Str("route", c.Path()).
			Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindAndValidate decodes the request body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := bind(c, req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return fail(c, err)
	}
	return nil
}

// bind decodes the request body into req. Inputs the services validate
// themselves use it directly.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Msg:  "Invalid request body",
			Code: apperrors.CodeForStatus(http.StatusBadRequest),
		})
	}
	return nil
}
