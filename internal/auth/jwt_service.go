package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bistro/internal/model"
)

const (
	// TokenExpiry is the duration for which issued tokens are valid.
	TokenExpiry = time.Hour
	// TokenHeader is the request header carrying the bearer token.
	TokenHeader = "x-auth-token"
)

// ErrInvalidToken is returned for every verification failure so callers
// cannot tell which check rejected the token.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// IsAdmin reports whether the token was issued for an admin. Authorization
// decisions go through the role gate, which re-reads the user record.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a new JWT service with the given secret and the
// standard one hour expiry.
func NewJWTService(secret string) *JWTService {
	return NewJWTServiceWithTTL(secret, TokenExpiry)
}

// NewJWTServiceWithTTL creates a JWT service issuing tokens valid for ttl.
func NewJWTServiceWithTTL(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue generates a signed token for the user.
func (s *JWTService) Issue(userID uuid.UUID, role model.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns the identity it carries.
func (s *JWTService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, Role: model.Role(claims.Role)}, nil
}
