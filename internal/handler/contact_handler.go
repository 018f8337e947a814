package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistro/internal/model"
	"bistro/internal/service"
)

// ContactHandler handles contact form endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactCreatedResponse acknowledges a contact submission.
type ContactCreatedResponse struct {
	Success bool           `json:"success"`
	Msg     string         `json:"msg"`
	Contact *model.Contact `json:"contact"`
}

// Create godoc
// @Summary Send a message through the contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param request body service.ContactInput true "Message"
// @Success 201 {object} ContactCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req service.ContactInput
	if err := bind(c, &req); err != nil {
		return err
	}

	contact, err := h.contactService.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, ContactCreatedResponse{
		Success: true,
		Msg:     "Your message has been sent successfully!",
		Contact: contact,
	})
}

// List godoc
// @Summary List contact submissions, newest first
// @Tags contact
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.contactService.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Search godoc
// @Summary Search contact submissions by name or email
// @Tags contact
// @Produce json
// @Security ApiKeyAuth
// @Param query query string true "Case-insensitive substring"
// @Success 200 {array} model.Contact
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact/search [get]
func (h *ContactHandler) Search(c echo.Context) error {
	contacts, err := h.contactService.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Delete godoc
// @Summary Delete a contact submission
// @Tags contact
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.contactService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "Contact deleted successfully"})
}
