package domain

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by CatalogClient.Login when the server
// rejects the presented credentials.
var ErrUnauthorized = errors.New("unauthorized")

// State store keys. The store persists exactly two records: the
// serialized session and the serialized cart.
const (
	StateKeyUser = "user"
	StateKeyCart = "cart"
)

// StateStore is the port for durable client-side state. Values are
// opaque serialized blobs; a missing key is reported via the ok flag,
// not an error.
type StateStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// CatalogClient is the port for the remote product and authentication
// API.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	// Login exchanges credentials for an access token. Credential
	// rejection is reported as ErrUnauthorized.
	Login(ctx context.Context, email, password string) (accessToken string, err error)
}
