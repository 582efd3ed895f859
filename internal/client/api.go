// Package client is the storefront's consumer side: it fetches the catalog
// once, keeps it in memory and derives every page view from that snapshot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
)

// ErrNotLoggedIn is returned by CurrentUser when the server has no session for us.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx envelope from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type APIClient struct {
	BaseURL string
	HTTP    *http.Client
	// Token is the session cookie value; it is sent on every request when set.
	Token string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Products fetches the full catalog.
func (c *APIClient) Products(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	if _, err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Product{}
	}
	return out, nil
}

// Login stores the returned session token on the client.
func (c *APIClient) Login(ctx context.Context, email, password, role string) (entity.PublicUser, error) {
	body := map[string]string{"email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	var u entity.PublicUser
	res, err := c.do(ctx, http.MethodPost, "/api/login", body, &u)
	if err != nil {
		return entity.PublicUser{}, err
	}
	for _, ck := range res.Cookies() {
		if ck.Name == helpers.SessionCookie {
			c.Token = ck.Value
		}
	}
	return u, nil
}

func (c *APIClient) CurrentUser(ctx context.Context) (entity.PublicUser, error) {
	var u entity.PublicUser
	if _, err := c.do(ctx, http.MethodGet, "/api/current_user", nil, &u); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return entity.PublicUser{}, ErrNotLoggedIn
		}
		return entity.PublicUser{}, err
	}
	return u, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/logout", nil, nil)
	c.Token = ""
	return err
}

// do sends a JSON request and decodes the envelope's data into out.
func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: c.Token})
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var env response.APIResponse[json.RawMessage]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return res, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 || !env.Success {
		return res, &APIError{Status: res.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return res, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return res, nil
}
