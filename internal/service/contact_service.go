package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	apperrors "bistro/internal/errors"
	"bistro/internal/events"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/validation"
)

// ContactInput is the payload of the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

// ContactService manages contact form submissions.
type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*model.Contact, error)
	ListAll(ctx context.Context) ([]model.Contact, error)
	Search(ctx context.Context, query string) ([]model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo      repository.ContactRepository
	publisher events.Publisher
	validate  *validator.Validate
}

// NewContactService creates a contact service.
func NewContactService(repo repository.ContactRepository, publisher events.Publisher) ContactService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &contactService{repo: repo, publisher: publisher, validate: validation.New()}
}

func (s *contactService) Create(ctx context.Context, input ContactInput) (*model.Contact, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	s.publisher.Publish(ctx, events.ContactCreated, contact.ID.String(), contact)
	return contact, nil
}

func (s *contactService) ListAll(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) Search(ctx context.Context, query string) ([]model.Contact, error) {
	query, err := searchQuery(query)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	contactID, err := parseID(id, apperrors.ErrContactNotFound)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrContactNotFound
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
