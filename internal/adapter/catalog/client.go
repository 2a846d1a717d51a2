// Package catalog implements the remote catalog port over JSON HTTP.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"
)

// DefaultTimeout bounds every remote call so a hung server cannot hang
// the client indefinitely.
const DefaultTimeout = 10 * time.Second

// Client talks to the storefront API: product listing, creation and
// update, plus credential login.
type Client struct {
	baseURL string
	http    *http.Client
}

// Ensure the port is met.
var _ domain.CatalogClient = (*Client)(nil)

// New creates a Client for the API at baseURL. A non-positive timeout
// falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListProducts fetches the full product catalog in server order.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct submits a new product and returns the record as stored
// by the server.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &created); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

// UpdateProduct replaces the full product record identified by p.ID.
func (c *Client) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	var updated domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+p.ID, p, &updated); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// Login exchanges credentials for an access token. A 401 response is
// reported as domain.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := map[string]string{"email": email, "password": password}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login: empty access token")
	}
	return resp.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
