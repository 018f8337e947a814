package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bistro/internal/cache"
	apperrors "bistro/internal/errors"
	"bistro/internal/events"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/storage"
	"bistro/internal/validation"
)

const (
	menuCacheTTL    = 30 * time.Second
	menuListKey     = "menu:all"
	menuItemKeyBase = "menu:"

	// menuCacheSettle is how long after a write the keys are dropped again, so
	// a read that raced the write cannot keep a stale entry alive.
	menuCacheSettle = time.Second
)

var maxPrice = decimal.New(1, 8)

// MenuInput holds the fields required to create a menu item.
type MenuInput struct {
	Title            string `form:"title" validate:"required,min=3"`
	ShortDescription string `form:"shortDescription" validate:"required,min=10"`
	Price            string `form:"price" validate:"required"`
	Type             string `form:"type" validate:"required,oneof=breakfast lunch dinner"`
}

// MenuPatch holds the fields of a partial menu update. Nil fields are left unchanged.
type MenuPatch struct {
	Title            *string `form:"title" validate:"omitempty,min=3"`
	ShortDescription *string `form:"shortDescription" validate:"omitempty,min=10"`
	Price            *string `form:"price"`
	Type             *string `form:"type" validate:"omitempty,oneof=breakfast lunch dinner"`
}

// MenuService manages menu items together with their image files.
type MenuService interface {
	Create(ctx context.Context, input MenuInput, image *multipart.FileHeader, createdBy uuid.UUID) (*model.MenuItem, error)
	Update(ctx context.Context, id string, patch MenuPatch, image *multipart.FileHeader) (*model.MenuItem, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.MenuItem, error)
	List(ctx context.Context) ([]model.MenuItem, error)
}

type menuService struct {
	repo      repository.MenuRepository
	store     storage.ImageStore
	cache     *cache.Client
	publisher events.Publisher
	validate  *validator.Validate
}

// NewMenuService creates a menu service. cache may be nil.
func NewMenuService(repo repository.MenuRepository, store storage.ImageStore, c *cache.Client, publisher events.Publisher) MenuService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &menuService{
		repo:      repo,
		store:     store,
		cache:     c,
		publisher: publisher,
		validate:  validation.New(),
	}
}

func (s *menuService) Create(ctx context.Context, input MenuInput, image *multipart.FileHeader, createdBy uuid.UUID) (*model.MenuItem, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.ShortDescription = strings.TrimSpace(input.ShortDescription)
	if err := validation.Struct(s.validate, input); err != nil {
		return nil, err
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperrors.Invalid("image", "Image is required")
	}
	if err := s.validateImage(image); err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		Price:            price,
		Type:             model.MenuType(input.Type),
		CreatedBy:        createdBy,
	}
	err = s.imageSaga(ctx, image, "", func(newPath string) error {
		item.ImagePath = newPath
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	s.invalidate(ctx, item.ID)
	s.publisher.Publish(ctx, events.MenuCreated, item.ID.String(), item)
	return item, nil
}

func (s *menuService) Update(ctx context.Context, id string, patch MenuPatch, image *multipart.FileHeader) (*model.MenuItem, error) {
	itemID, err := parseID(id, apperrors.ErrMenuItemNotFound)
	if err != nil {
		return nil, err
	}
	patch.Title = trimmed(patch.Title)
	patch.ShortDescription = trimmed(patch.ShortDescription)
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}
	var price *decimal.Decimal
	if patch.Price != nil {
		p, err := parsePrice(*patch.Price)
		if err != nil {
			return nil, err
		}
		price = &p
	}
	if image != nil {
		if err := s.validateImage(image); err != nil {
			return nil, err
		}
	}

	item, err := s.find(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.ShortDescription != nil {
		item.ShortDescription = *patch.ShortDescription
	}
	if price != nil {
		item.Price = *price
	}
	if patch.Type != nil {
		item.Type = model.MenuType(*patch.Type)
	}

	if image != nil {
		err = s.imageSaga(ctx, image, item.ImagePath, func(newPath string) error {
			item.ImagePath = newPath
			return s.repo.Update(ctx, item)
		})
	} else {
		err = s.repo.Update(ctx, item)
	}
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}

	s.invalidate(ctx, item.ID)
	s.publisher.Publish(ctx, events.MenuUpdated, item.ID.String(), item)
	return item, nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	itemID, err := parseID(id, apperrors.ErrMenuItemNotFound)
	if err != nil {
		return err
	}
	item, err := s.find(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMenuItemNotFound
		}
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.discard(ctx, item.ImagePath)

	s.invalidate(ctx, itemID)
	s.publisher.Publish(ctx, events.MenuDeleted, itemID.String(), nil)
	return nil
}

func (s *menuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	itemID, err := parseID(id, apperrors.ErrMenuItemNotFound)
	if err != nil {
		return nil, err
	}

	key := menuItemKeyBase + itemID.String()
	var cached model.MenuItem
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	item, err := s.find(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, item, menuCacheTTL)
	return item, nil
}

func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	var cached []model.MenuItem
	if s.cache.GetJSON(ctx, menuListKey, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	s.cache.SetJSON(ctx, menuListKey, items, menuCacheTTL)
	return items, nil
}

func (s *menuService) find(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return item, nil
}

// imageSaga writes image to the store, then runs persist with its public
// path. On failure the new file is removed; on success oldPath is removed.
// Either way at most one file stays referenced by the record.
func (s *menuService) imageSaga(ctx context.Context, image *multipart.FileHeader, oldPath string, persist func(newPath string) error) error {
	newPath, err := s.store.Save(image)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	if err := persist(newPath); err != nil {
		s.discard(ctx, newPath)
		return err
	}
	if oldPath != "" && oldPath != newPath {
		s.discard(ctx, oldPath)
	}
	return nil
}

// discard removes a stored image, logging instead of failing.
func (s *menuService) discard(ctx context.Context, publicPath string) {
	if publicPath == "" {
		return
	}
	if err := s.store.Remove(publicPath); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("image", publicPath).Msg("failed to remove image file")
	}
}

func (s *menuService) invalidate(ctx context.Context, id uuid.UUID) {
	keys := []string{menuListKey, menuItemKeyBase + id.String()}
	_ = s.cache.Delete(ctx, keys...)
	if s.cache == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	time.AfterFunc(menuCacheSettle, func() {
		_ = s.cache.Delete(detached, keys...)
	})
}

func (s *menuService) validateImage(image *multipart.FileHeader) error {
	err := s.store.Validate(image)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrUnsupportedImage):
		return apperrors.Invalid("image", "Error: File upload only supports images (jpeg, jpg, png, gif)!")
	case errors.Is(err, storage.ErrImageTooLarge):
		return apperrors.Invalid("image", "Image exceeds the maximum upload size")
	default:
		return fmt.Errorf("validate image: %w", err)
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperrors.Invalid("price", "Price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, apperrors.Invalid("price", "Price must not be negative")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, apperrors.Invalid("price", "Price is too large")
	}
	return price.Round(2), nil
}

// trimmed treats blank values as absent.
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// parseID maps malformed identifiers to the resource's not-found error.
func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
