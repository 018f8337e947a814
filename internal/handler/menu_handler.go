package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/service"
)

// MenuHandler handles menu endpoints.
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Create godoc
// @Summary Create a menu item
// @Tags menu
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Title"
// @Param shortDescription formData string true "Short description"
// @Param price formData number true "Price"
// @Param type formData string true "Meal" Enums(breakfast, lunch, dinner)
// @Param image formData file true "Image (jpeg, jpg, png, gif; up to 5 MB)"
// @Success 201 {object} model.MenuItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return fail(c, apperrors.ErrUnauthenticated)
	}
	image, err := formImage(c)
	if err != nil {
		return fail(c, err)
	}

	input := service.MenuInput{
		Title:            c.FormValue("title"),
		ShortDescription: c.FormValue("shortDescription"),
		Price:            c.FormValue("price"),
		Type:             c.FormValue("type"),
	}
	item, err := h.menuService.Create(c.Request().Context(), input, image, identity.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// List godoc
// @Summary List menu items, newest first
// @Tags menu
// @Produce json
// @Success 200 {array} model.MenuItem
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	items, err := h.menuService.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get a menu item
// @Tags menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	item, err := h.menuService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary Update a menu item
// @Description Only the supplied fields change. A new image replaces the old one. JSON bodies update fields only.
// @Tags menu
// @Accept multipart/form-data,json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Menu item ID"
// @Param title formData string false "Title"
// @Param shortDescription formData string false "Short description"
// @Param price formData number false "Price"
// @Param type formData string false "Meal" Enums(breakfast, lunch, dinner)
// @Param image formData file false "Replacement image"
// @Success 200 {object} model.MenuItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	var (
		patch service.MenuPatch
		image *multipart.FileHeader
		err   error
	)
	if isJSON(c) {
		var body MenuPatchRequest
		if err := bind(c, &body); err != nil {
			return err
		}
		patch = body.patch()
	} else {
		if image, err = formImage(c); err != nil {
			return fail(c, err)
		}
		patch = service.MenuPatch{
			Title:            formValue(c, "title"),
			ShortDescription: formValue(c, "shortDescription"),
			Price:            formValue(c, "price"),
			Type:             formValue(c, "type"),
		}
	}

	item, err := h.menuService.Update(c.Request().Context(), c.Param("id"), patch, image)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a menu item and its image
// @Tags menu
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /menu/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	if err := h.menuService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "Menu item deleted"})
}

// MenuPatchRequest is the JSON form of a menu update. Price may be a number or a string.
type MenuPatchRequest struct {
	Title            *string          `json:"title"`
	ShortDescription *string          `json:"shortDescription"`
	Price            *decimal.Decimal `json:"price"`
	Type             *string          `json:"type"`
}

func (r MenuPatchRequest) patch() service.MenuPatch {
	patch := service.MenuPatch{
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		Type:             r.Type,
	}
	if r.Price != nil {
		price := r.Price.String()
		patch.Price = &price
	}
	return patch
}

func isJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// formImage returns the uploaded image, or nil when none was sent.
func formImage(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		return fh, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	default:
		return nil, apperrors.Invalid("image", "Image upload could not be read")
	}
}

// formValue returns a pointer to a non-empty form value.
func formValue(c echo.Context, name string) *string {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
