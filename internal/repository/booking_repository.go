package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bistro/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	Search(ctx context.Context, query string) ([]model.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// List returns all bookings ordered by reservation time.
func (r *bookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	bookings := []model.Booking{}
	if err := r.ordered(ctx).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByUser returns the bookings owned by userID ordered by reservation time.
func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	bookings := []model.Booking{}
	if err := r.ordered(ctx).Where("user_id = ?", userID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Search matches query against name or email, case-insensitively.
func (r *bookingRepository) Search(ctx context.Context, query string) ([]model.Booking, error) {
	pattern := containsPattern(query)
	bookings := []model.Booking{}
	if err := r.ordered(ctx).Where(nameOrEmailMatches, pattern, pattern).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookingRepository) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("datetime ASC").Order("id")
}
