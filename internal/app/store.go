// Package app holds the application services and business logic.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrValidation indicates that user input was rejected before any
	// remote call was made.
	ErrValidation = errors.New("invalid input")
	// ErrPermission indicates that the current session is not allowed
	// to perform the operation.
	ErrPermission = errors.New("permission denied")
	// ErrAuthRequired indicates that an operation requiring a session
	// was attempted while anonymous.
	ErrAuthRequired = errors.New("authentication required")
	// ErrCatalogUnavailable indicates that the product catalog could
	// not be fetched from the remote API.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrRemoteWrite indicates that a create or update was rejected by
	// the remote API.
	ErrRemoteWrite = errors.New("remote write failed")
)

// Store is the session/cart state manager. It owns the live in-memory
// session, cart and product catalog, funnels every mutation through its
// operation set, and writes session and cart through to the durable
// state store on each change.
type Store struct {
	catalog    domain.CatalogClient
	state      domain.StateStore
	adminEmail string

	mu       sync.Mutex
	session  *domain.Session
	cart     domain.Cart
	products []domain.Product
}

// Snapshot is a read-only copy of the state exposed to the presentation
// layer.
type Snapshot struct {
	Session  *domain.Session
	Cart     domain.Cart
	Products []domain.Product
}

// NewStore creates a Store backed by the given catalog client and state
// store. adminEmail is the identity that maps to administrator access.
func NewStore(catalog domain.CatalogClient, state domain.StateStore, adminEmail string) *Store {
	return &Store{
		catalog:    catalog,
		state:      state,
		adminEmail: adminEmail,
		cart:       domain.Cart{},
	}
}

// Initialize loads the persisted session and cart and fetches the
// product catalog. Missing or corrupt durable records are treated as
// absent, never as fatal. A catalog fetch failure is reported as
// ErrCatalogUnavailable; the store stays usable with an empty catalog.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = s.loadSession(ctx)
	s.cart = s.loadCart(ctx)

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.products = nil
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	s.products = products
	return nil
}

// Authenticate checks credentials against the remote API and, on
// success, establishes and persists a session. Credential rejection and
// transport failure are both normal false outcomes, not errors; state
// is left untouched in either case. A non-nil error is only returned
// when the session could not be persisted, in which case no partial
// session is kept in memory either.
func (s *Store) Authenticate(ctx context.Context, email, secret string) (bool, error) {
	token, err := s.catalog.Login(ctx, email, secret)
	if err != nil {
		return false, nil
	}

	identity := emailFromToken(token, email)
	level := domain.AccessCustomer
	if identity == s.adminEmail {
		level = domain.AccessAdmin
	}
	session := &domain.Session{Email: identity, Token: token, AccessLevel: level}

	raw, err := json.Marshal(session)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Set(ctx, domain.StateKeyUser, string(raw)); err != nil {
		return false, fmt.Errorf("persist session: %w", err)
	}
	s.session = session
	return true, nil
}

// Logout clears the in-memory session and removes the durable record.
// Safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return s.state.Remove(ctx, domain.StateKeyUser)
}

// AddProduct validates the draft, submits it to the remote catalog and
// appends the confirmed product to the in-memory catalog. The catalog
// is only mutated after the server acknowledges the create. Requires an
// administrator session.
func (s *Store) AddProduct(ctx context.Context, draft domain.Product) (domain.Product, error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if !session.IsAdmin() {
		return domain.Product{}, ErrPermission
	}
	if draft.Name == "" || draft.Price <= 0 {
		return domain.Product{}, fmt.Errorf("%w: name and price are required", ErrValidation)
	}
	if draft.ID == "" {
		draft.ID = domain.NewProductID()
	}
	if draft.Stock < 0 {
		draft.Stock = 0
	}

	created, err := s.catalog.CreateProduct(ctx, draft)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}

	s.mu.Lock()
	s.products = append(s.products, created)
	s.mu.Unlock()
	return created, nil
}

// AddToCart merges quantity into the line for product's ID, creating
// the line if absent. The combined quantity is clamped to the snapshot
// stock and never goes negative; a zero-stock product keeps a
// zero-quantity line rather than being dropped. The cart is persisted
// write-through.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.cart[product.ID]
	if ok {
		line.Quantity += quantity
	} else {
		line = domain.CartLine{Product: product, Quantity: quantity}
	}
	if line.Quantity > line.Product.Stock {
		line.Quantity = line.Product.Stock
	}
	if line.Quantity < 0 {
		line.Quantity = 0
	}
	s.cart[product.ID] = line

	return s.saveCart(ctx)
}

// RemoveFromCart deletes the line for the given product ID. Removing an
// absent line is a no-op, not an error.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart[productID]; !ok {
		return nil
	}
	delete(s.cart, productID)
	return s.saveCart(ctx)
}

// ClearCart empties the cart and removes the durable cart record.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCartLocked(ctx)
}

// Checkout commits the cart: every line decrements the matching
// product's stock and the changed products are written back to the
// remote catalog, one update per product. Requires a session.
//
// Checkout is best-effort: updates are independent remote calls, the
// local catalog keeps the decremented stock values, and the cart is
// cleared even when some updates fail. Failed updates are reported
// collectively as ErrRemoteWrite.
func (s *Store) Checkout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrAuthRequired
	}
	if len(s.cart) == 0 {
		return nil
	}

	var failed []error
	for i, p := range s.products {
		line, ok := s.cart[p.ID]
		if !ok {
			continue
		}
		p.Stock -= line.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		if _, err := s.catalog.UpdateProduct(ctx, p); err != nil {
			failed = append(failed, fmt.Errorf("product %s: %v", p.ID, err))
		}
		s.products[i] = p
	}

	if err := s.clearCartLocked(ctx); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrRemoteWrite, errors.Join(failed...))
	}
	return nil
}

// Snapshot returns an independent copy of the current session, cart and
// catalog.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Cart: s.cart.Clone()}
	if s.session != nil {
		copied := *s.session
		snap.Session = &copied
	}
	snap.Products = make([]domain.Product, len(s.products))
	copy(snap.Products, s.products)
	return snap
}

// CartCount returns the number of distinct cart lines, as shown on the
// cart badge.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

// CartTotal returns the cart total priced from the line snapshots.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Store) loadSession(ctx context.Context) *domain.Session {
	raw, ok, err := s.state.Get(ctx, domain.StateKeyUser)
	if err != nil || !ok {
		return nil
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil
	}
	if session.Email == "" || session.Token == "" {
		return nil
	}
	return &session
}

func (s *Store) loadCart(ctx context.Context) domain.Cart {
	raw, ok, err := s.state.Get(ctx, domain.StateKeyCart)
	if err != nil || !ok {
		return domain.Cart{}
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil || cart == nil {
		return domain.Cart{}
	}
	return cart
}

func (s *Store) saveCart(ctx context.Context) error {
	raw, err := json.Marshal(s.cart)
	if err != nil {
		return err
	}
	if err := s.state.Set(ctx, domain.StateKeyCart, string(raw)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) clearCartLocked(ctx context.Context) error {
	s.cart = domain.Cart{}
	return s.state.Remove(ctx, domain.StateKeyCart)
}

// emailFromToken extracts the email claim from the access token without
// verifying the signature; the client trusts the server it just
// authenticated against. Falls back to the submitted email when the
// token is not a decodable JWT.
func emailFromToken(token, fallback string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	return fallback
}
