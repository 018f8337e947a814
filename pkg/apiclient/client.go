// Package apiclient is a Go client for the restaurant API. A Session holds the
// signed-in user's token and profile and is passed explicitly to callers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bistro/internal/model"
)

const tokenHeader = "x-auth-token"

// ErrUnauthenticated is returned when the session has no usable token. The
// session is cleared when the server rejects its token.
var ErrUnauthenticated = errors.New("apiclient: not signed in")

// FieldError is one invalid input field reported by the server.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status int          `json:"-"`
	Msg    string       `json:"msg"`
	Code   string       `json:"code"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %d %s", e.Status, e.Msg)
}

// Client talks to one API deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (for example http://localhost:5000).
// A nil httpClient gets a default with a short timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a guest account and returns a loaded session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var tok tokenResponse
	payload := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", payload, &tok); err != nil {
		return nil, err
	}
	return c.Resume(ctx, tok.Token)
}

// Login signs in and returns a loaded session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var tok tokenResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", payload, &tok); err != nil {
		return nil, err
	}
	return c.Resume(ctx, tok.Token)
}

// Resume builds a session from a previously issued token and loads its user.
func (c *Client) Resume(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	s := &Session{client: c, token: token}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Menu lists menu items, newest first.
func (c *Client) Menu(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/menu", "", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MenuItem fetches one menu item.
func (c *Client) MenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/menu/"+url.PathEscape(id), "", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendContact submits the public contact form.
func (c *Client) SendContact(ctx context.Context, req ContactRequest) (*model.Contact, error) {
	var resp struct {
		Contact *model.Contact `json:"contact"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/contact", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.Contact, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Msg == "" {
			apiErr.Msg = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// MenuForm carries the text fields of a menu item upload. Empty fields are
// omitted, which leaves them unchanged on update.
type MenuForm struct {
	Title            string
	ShortDescription string
	Price            string
	Type             model.MenuType
}

func (f MenuForm) encode(filename string, image io.Reader) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range map[string]string{
		"title":            f.Title,
		"shortDescription": f.ShortDescription,
		"price":            f.Price,
		"type":             string(f.Type),
	} {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
