package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bistro/internal/model"
)

// ContactRepository defines contact submission persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context) ([]model.Contact, error)
	Search(ctx context.Context, query string) ([]model.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// List returns all submissions, newest first.
func (r *contactRepository) List(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := r.newestFirst(ctx).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Search matches query against name or email, case-insensitively.
func (r *contactRepository) Search(ctx context.Context, query string) ([]model.Contact, error) {
	pattern := containsPattern(query)
	contacts := []model.Contact{}
	if err := r.newestFirst(ctx).Where(nameOrEmailMatches, pattern, pattern).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) newestFirst(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("created_at DESC").Order("id")
}
