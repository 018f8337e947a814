package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/service"
)

// BookingHandler handles reservation endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookingCreatedResponse confirms a reservation.
type BookingCreatedResponse struct {
	Success bool           `json:"success"`
	Msg     string         `json:"msg"`
	Booking *model.Booking `json:"booking"`
}

// Create godoc
// @Summary Book a table
// @Tags booking
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.BookingInput true "Booking"
// @Success 201 {object} BookingCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /booking [post]
func (h *BookingHandler) Create(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return fail(c, apperrors.ErrUnauthenticated)
	}
	var req service.BookingInput
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Create(c.Request().Context(), req, identity.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, BookingCreatedResponse{
		Success: true,
		Msg:     "Your booking has been confirmed!",
		Booking: booking,
	})
}

// List godoc
// @Summary List all bookings
// @Tags booking
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /booking [get]
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.bookingService.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// ListMine godoc
// @Summary List the signed-in user's bookings
// @Tags booking
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /booking/user [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return fail(c, apperrors.ErrUnauthenticated)
	}
	bookings, err := h.bookingService.ListByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Search godoc
// @Summary Search bookings by name or email
// @Tags booking
// @Produce json
// @Security ApiKeyAuth
// @Param query query string true "Case-insensitive substring"
// @Success 200 {array} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /booking/search [get]
func (h *BookingHandler) Search(c echo.Context) error {
	bookings, err := h.bookingService.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Delete godoc
// @Summary Delete a booking
// @Tags booking
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /booking/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.bookingService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "Booking deleted successfully"})
}
