package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bistro/internal/auth"
	"bistro/internal/config"
	apperrors "bistro/internal/errors"
	"bistro/internal/handler"
	appmiddleware "bistro/internal/middleware"
	"bistro/internal/service"
	"bistro/internal/validation"
)

// bodyLimit leaves room for a full-size image plus the form fields.
const bodyLimit = "10M"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userService service.UserService,
	authHandler *handler.AuthHandler,
	menuHandler *handler.MenuHandler,
	bookingHandler *handler.BookingHandler,
	contactHandler *handler.ContactHandler,
) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = &CustomValidator{validator: validation.New()}

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.ClientURLs,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			auth.TokenHeader,
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Restaurant API is running")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	authGate := appmiddleware.AuthGate(jwtService)
	adminOnly := appmiddleware.RoleGate(userService)

	api := e.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/user", authHandler.CurrentUser, authGate)

	api.POST("/booking", bookingHandler.Create, authGate)
	api.GET("/booking", bookingHandler.List, authGate, adminOnly)
	api.GET("/booking/user", bookingHandler.ListMine, authGate)
	api.GET("/booking/search", bookingHandler.Search, authGate, adminOnly)
	api.DELETE("/booking/:id", bookingHandler.Delete, authGate, adminOnly)

	api.POST("/contact", contactHandler.Create)
	api.GET("/contact", contactHandler.List, authGate, adminOnly)
	api.GET("/contact/search", contactHandler.Search, authGate, adminOnly)
	api.DELETE("/contact/:id", contactHandler.Delete, authGate, adminOnly)

	api.GET("/menu", menuHandler.List)
	api.GET("/menu/:id", menuHandler.Get)
	api.POST("/menu", menuHandler.Create, authGate, adminOnly)
	api.PUT("/menu/:id", menuHandler.Update, authGate, adminOnly)
	api.DELETE("/menu/:id", menuHandler.Delete, authGate, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Struct(cv.validator, i)
}

// HTTPErrorHandler renders every error as an errors.ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := apperrors.ErrorResponse{Msg: "Server error", Code: apperrors.CodeForStatus(status)}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body = apperrors.ErrorResponse{Msg: msg, Code: apperrors.CodeForStatus(status)}
		default:
			body = apperrors.ErrorResponse{Msg: http.StatusText(status), Code: apperrors.CodeForStatus(status)}
		}
		if status >= http.StatusInternalServerError {
			if _, ok := he.Message.(apperrors.ErrorResponse); !ok {
				body = apperrors.ErrorResponse{Msg: "Server error", Code: apperrors.CodeForStatus(status)}
			}
		}
	} else {
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		log.Ctx(c.Request().Context()).Error().Err(writeErr).Msg("write error response")
	}
}
