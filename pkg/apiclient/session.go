package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"bistro/internal/model"
)

// Session is a signed-in user's view of the API.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
	user  *model.User
}

// Token returns the bearer token, or "" after the session was cleared.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the loaded profile.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether the session still holds a token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin is derived from the loaded user's role on every call.
func (s *Session) IsAdmin() bool {
	u := s.User()
	return u != nil && u.IsAdmin()
}

// Logout forgets the token and user. Tokens are stateless, so nothing is sent.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Reload fetches the current user for the session's token.
func (s *Session) Reload(ctx context.Context) error {
	var user model.User
	if err := s.call(ctx, http.MethodGet, "/api/auth/user", nil, &user); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// BookingRequest is a table reservation.
type BookingRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Datetime string `json:"datetime"`
	People   string `json:"people"`
	Message  string `json:"message,omitempty"`
}

// Book reserves a table for the signed-in user.
func (s *Session) Book(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	var resp struct {
		Booking *model.Booking `json:"booking"`
	}
	if err := s.call(ctx, http.MethodPost, "/api/booking", req, &resp); err != nil {
		return nil, err
	}
	return resp.Booking, nil
}

// MyBookings lists the signed-in user's bookings.
func (s *Session) MyBookings(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	return out, s.call(ctx, http.MethodGet, "/api/booking/user", nil, &out)
}

// Bookings lists every booking. Admin only.
func (s *Session) Bookings(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	return out, s.call(ctx, http.MethodGet, "/api/booking", nil, &out)
}

// SearchBookings matches name or email. Admin only.
func (s *Session) SearchBookings(ctx context.Context, query string) ([]model.Booking, error) {
	var out []model.Booking
	return out, s.call(ctx, http.MethodGet, "/api/booking/search?query="+url.QueryEscape(query), nil, &out)
}

// DeleteBooking removes a booking. Admin only.
func (s *Session) DeleteBooking(ctx context.Context, id string) error {
	return s.call(ctx, http.MethodDelete, "/api/booking/"+url.PathEscape(id), nil, nil)
}

// Contacts lists contact submissions. Admin only.
func (s *Session) Contacts(ctx context.Context) ([]model.Contact, error) {
	var out []model.Contact
	return out, s.call(ctx, http.MethodGet, "/api/contact", nil, &out)
}

// SearchContacts matches name or email. Admin only.
func (s *Session) SearchContacts(ctx context.Context, query string) ([]model.Contact, error) {
	var out []model.Contact
	return out, s.call(ctx, http.MethodGet, "/api/contact/search?query="+url.QueryEscape(query), nil, &out)
}

// DeleteContact removes a contact submission. Admin only.
func (s *Session) DeleteContact(ctx context.Context, id string) error {
	return s.call(ctx, http.MethodDelete, "/api/contact/"+url.PathEscape(id), nil, nil)
}

// CreateMenuItem uploads a new menu item with its image. Admin only.
func (s *Session) CreateMenuItem(ctx context.Context, form MenuForm, filename string, image io.Reader) (*model.MenuItem, error) {
	return s.sendMenu(ctx, http.MethodPost, "/api/menu", form, filename, image)
}

// UpdateMenuItem changes the non-empty fields and, when image is non-nil,
// replaces the picture. Admin only.
func (s *Session) UpdateMenuItem(ctx context.Context, id string, form MenuForm, filename string, image io.Reader) (*model.MenuItem, error) {
	return s.sendMenu(ctx, http.MethodPut, "/api/menu/"+url.PathEscape(id), form, filename, image)
}

// DeleteMenuItem removes a menu item and its image. Admin only.
func (s *Session) DeleteMenuItem(ctx context.Context, id string) error {
	return s.call(ctx, http.MethodDelete, "/api/menu/"+url.PathEscape(id), nil, nil)
}

func (s *Session) sendMenu(ctx context.Context, method, path string, form MenuForm, filename string, image io.Reader) (*model.MenuItem, error) {
	body, contentType, err := form.encode(filename, image)
	if err != nil {
		return nil, fmt.Errorf("encode menu form: %w", err)
	}
	token := s.Token()
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var item model.MenuItem
	if err := s.check(s.client.do(ctx, method, path, token, body, contentType, &item)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Session) call(ctx context.Context, method, path string, payload, out interface{}) error {
	token := s.Token()
	if token == "" {
		return ErrUnauthenticated
	}
	return s.check(s.client.doJSON(ctx, method, path, token, payload, out))
}

// check clears the session when the server rejects its token.
func (s *Session) check(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		s.Logout()
		return fmt.Errorf("%w: %s", ErrUnauthenticated, apiErr.Msg)
	}
	return err
}
