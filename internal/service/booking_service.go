package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "bistro/internal/errors"
	"bistro/internal/events"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/validation"
)

// Layouts accepted for a booking's datetime, most specific first. The short
// forms are what HTML datetime-local inputs submit.
var bookingTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// BookingInput is the payload of a table reservation.
type BookingInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Datetime string `json:"datetime" validate:"required"`
	People   string `json:"people" validate:"required,max=32"`
	Message  string `json:"message"`
}

// BookingService manages table reservations.
type BookingService interface {
	Create(ctx context.Context, input BookingInput, owner uuid.UUID) (*model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, owner uuid.UUID) ([]model.Booking, error)
	Search(ctx context.Context, query string) ([]model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	publisher events.Publisher
	validate  *validator.Validate
}

// NewBookingService creates a booking service.
func NewBookingService(repo repository.BookingRepository, publisher events.Publisher) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{repo: repo, publisher: publisher, validate: validation.New()}
}

func (s *bookingService) Create(ctx context.Context, input BookingInput, owner uuid.UUID) (*model.Booking, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.Datetime = strings.TrimSpace(input.Datetime)
	input.People = strings.TrimSpace(input.People)
	input.Message = strings.TrimSpace(input.Message)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, err
	}
	at, err := parseBookingTime(input.Datetime)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Name:     input.Name,
		Email:    input.Email,
		Datetime: at,
		People:   input.People,
		Message:  input.Message,
		UserID:   owner,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.publisher.Publish(ctx, events.BookingCreated, booking.ID.String(), booking)
	return booking, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByUser(ctx context.Context, owner uuid.UUID) ([]model.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) Search(ctx context.Context, query string) ([]model.Booking, error) {
	query, err := searchQuery(query)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	bookingID, err := parseID(id, apperrors.ErrBookingNotFound)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBookingNotFound
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

func parseBookingTime(raw string) (time.Time, error) {
	for _, layout := range bookingTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.Invalid("datetime", "Date and time must be a valid ISO 8601 value")
}

func searchQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", apperrors.Invalid("query", "Search query is required")
	}
	return q, nil
}
