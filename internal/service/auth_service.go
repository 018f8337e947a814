package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
)

const (
	bcryptCost = 10
	// bcrypt only accepts inputs up to this many bytes.
	maxPasswordBytes = 72
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a guest user with a hashed password and returns a token for it.
func (s *authService) Register(ctx context.Context, name, email, password string) (string, *model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, apperrors.Invalid("name", "Name is required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleGuest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and returns a token carrying the stored role.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperrors.Invalid("password", "Password must be at most 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
