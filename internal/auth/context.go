package auth

import "github.com/labstack/echo/v4"

// IdentityContextKey is the echo context key holding the *Identity.
const IdentityContextKey = "identity"

// IdentityFrom returns the identity attached by the auth gate.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(IdentityContextKey).(*Identity)
	return id, ok && id != nil
}
