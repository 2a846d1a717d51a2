// Package memory implements in-memory adapters for development and
// testing.
package memory

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/domain"
)

// StateStore implements the state store port on a plain map.
type StateStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ domain.StateStore = (*StateStore)(nil)

// NewStateStore creates an empty in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{values: make(map[string]string)}
}

// Get reads the value for key.
func (s *StateStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set writes the value for key.
func (s *StateStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes the value for key.
func (s *StateStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Catalog implements the catalog port against an in-memory product set.
// It is the offline stand-in for the remote API: list, create and
// update behave like the real server, and login accepts the credential
// pairs it was seeded with.
type Catalog struct {
	mu       sync.Mutex
	products []domain.Product
	users    map[string]string
}

var _ domain.CatalogClient = (*Catalog)(nil)

// NewCatalog creates a Catalog seeded with the given products.
func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{users: make(map[string]string)}
	c.products = append(c.products, products...)
	return c
}

// AddUser registers a credential pair accepted by Login. The issued
// token is opaque, not a JWT.
func (c *Catalog) AddUser(email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[email] = password
}

// ListProducts returns a copy of the product set.
func (c *Catalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// CreateProduct appends a product.
func (c *Catalog) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.products {
		if existing.ID == p.ID {
			return domain.Product{}, fmt.Errorf("product %s already exists", p.ID)
		}
	}
	c.products = append(c.products, p)
	return p, nil
}

// UpdateProduct replaces the product with matching ID.
func (c *Catalog) UpdateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.products {
		if existing.ID == p.ID {
			c.products[i] = p
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %s not found", p.ID)
}

// Login checks the credential pair against the seeded users.
func (c *Catalog) Login(_ context.Context, email, password string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pw, ok := c.users[email]
	if !ok || pw != password {
		return "", domain.ErrUnauthorized
	}
	return "memory-token-" + email, nil
}
