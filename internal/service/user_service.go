package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
)

// UserService exposes user lookups and administration.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (user *model.User, created bool, err error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService. Lookups always read the database so
// role changes take effect on the next request.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account for email, or promotes the existing
// account to admin. The password is only used when creating.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			if err := s.repo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("promote user: %w", err)
			}
			existing.Role = model.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if len(password) < 6 {
		return nil, false, apperrors.Invalid("password", "Password must be at least 6 characters")
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}
