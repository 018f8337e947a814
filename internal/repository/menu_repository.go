package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bistro/internal/model"
)

// MenuRepository defines menu item persistence operations.
type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	List(ctx context.Context) ([]model.MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImagePaths(ctx context.Context) ([]string, error)
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// Create creates a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update saves every column of an existing menu item.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindByID finds a menu item by ID.
func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns all menu items, newest first.
func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a menu item, reporting gorm.ErrRecordNotFound when nothing matched.
func (r *menuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ImagePaths returns every image path referenced by a menu item.
func (r *menuRepository) ImagePaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := r.db.WithContext(ctx).Model(&model.MenuItem{}).Pluck("image_path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
