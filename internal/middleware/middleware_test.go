package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/service"
	"bistro/internal/testutil"
)

type gateFixture struct {
	e     *echo.Echo
	jwt   *auth.JWTService
	users repository.UserRepository
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	gormDB := testutil.SQLite(t)
	users := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService("test-secret")

	e := echo.New()
	ok := func(c echo.Context) error {
		identity, _ := auth.IdentityFrom(c)
		return c.String(http.StatusOK, identity.UserID.String())
	}
	e.GET("/private", ok, AuthGate(jwtService))
	e.GET("/admin", ok, AuthGate(jwtService), RoleGate(service.NewUserService(users)))

	return &gateFixture{e: e, jwt: jwtService, users: users}
}

func (f *gateFixture) user(t *testing.T, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: "U", Email: uuid.NewString() + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *gateFixture) do(t *testing.T, path, token string) (*httptest.ResponseRecorder, apperrors.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var body apperrors.ErrorResponse
	if rec.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestAuthGate(t *testing.T) {
	f := newGateFixture(t)
	u := f.user(t, model.RoleGuest)

	valid, err := f.jwt.Issue(u.ID, u.Role)
	require.NoError(t, err)
	expired, err := auth.NewJWTServiceWithTTL("test-secret", -time.Minute).Issue(u.ID, u.Role)
	require.NoError(t, err)
	foreign, err := auth.NewJWTService("other-secret").Issue(u.ID, u.Role)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{name: "valid token", token: valid, wantStatus: http.StatusOK},
		{name: "missing token", wantStatus: http.StatusUnauthorized, wantMsg: "No token, authorization denied"},
		{name: "garbage token", token: "abc.def.ghi", wantStatus: http.StatusUnauthorized, wantMsg: "Token is not valid"},
		{name: "expired token", token: expired, wantStatus: http.StatusUnauthorized, wantMsg: "Token is not valid"},
		{name: "wrong secret", token: foreign, wantStatus: http.StatusUnauthorized, wantMsg: "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := f.do(t, "/private", tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, u.ID.String(), rec.Body.String())
				return
			}
			assert.Equal(t, tt.wantMsg, body.Msg)
			assert.Equal(t, "UNAUTHENTICATED", body.Code)
		})
	}
}

func TestRoleGate(t *testing.T) {
	f := newGateFixture(t)
	admin := f.user(t, model.RoleAdmin)
	guest := f.user(t, model.RoleGuest)

	adminToken, err := f.jwt.Issue(admin.ID, admin.Role)
	require.NoError(t, err)
	guestToken, err := f.jwt.Issue(guest.ID, guest.Role)
	require.NoError(t, err)
	ghostToken, err := f.jwt.Issue(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	rec, _ := f.do(t, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(t, "/admin", guestToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Admin privileges required.", body.Msg)

	rec, _ = f.do(t, "/admin", ghostToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGate_UsesCurrentRoleNotTokenRole(t *testing.T) {
	f := newGateFixture(t)
	u := f.user(t, model.RoleAdmin)
	token, err := f.jwt.Issue(u.ID, model.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, f.users.UpdateRole(context.Background(), u.ID, model.RoleGuest))

	rec, _ := f.do(t, "/admin", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, f.users.UpdateRole(context.Background(), u.ID, model.RoleAdmin))
	rec, _ = f.do(t, "/admin", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger_RendersHandlerErrors(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "short and stout")
}
