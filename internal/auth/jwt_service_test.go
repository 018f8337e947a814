package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/model"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.Issue(userID, model.RoleAdmin)
	require.NoError(t, err)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, model.RoleAdmin, identity.Role)
	assert.True(t, identity.IsAdmin())
}

func TestJWTService_TokenExpiresAfterOneHour(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.Issue(uuid.New(), model.RoleGuest)
	require.NoError(t, err)

	parsed, _, err := new(jwt.Parser).ParseUnverified(token, &Claims{})
	require.NoError(t, err)
	claims := parsed.Claims.(*Claims)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_VerifyRejects(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	expired, err := NewJWTServiceWithTTL("test-secret", -time.Minute).Issue(userID, model.RoleAdmin)
	require.NoError(t, err)

	foreign, err := NewJWTService("other-secret").Issue(userID, model.RoleAdmin)
	require.NoError(t, err)

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: userID.String(), Role: "admin"})
	unsigned, err := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	malformedID, err := badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"missing":      "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"wrong secret": foreign,
		"alg none":     unsigned,
		"malformed id": malformedID,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			identity, err := svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, identity)
		})
	}
}
