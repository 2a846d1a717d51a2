package app_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/adapter/catalog"
	"storefront/internal/adapter/localstore"
	"storefront/internal/app"
	"storefront/internal/domain"
	"storefront/internal/stubapi"
)

// Full loop against the real HTTP client, the stub API and the
// file-backed state store: login, browse, add a product, fill the cart,
// check out, then restart and verify durable state.
func TestStorefrontEndToEnd(t *testing.T) {
	api := stubapi.New([]byte("it-secret"),
		domain.Product{ID: "p1", Name: "Ant farm", Price: 12.5, Stock: 5},
	)
	if err := api.AddUser("admin@example.com", "password"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	dir := t.TempDir()
	ctx := context.Background()

	open := func() *app.Store {
		state, err := localstore.Open(dir)
		if err != nil {
			t.Fatalf("localstore.Open: %v", err)
		}
		s := app.NewStore(catalog.New(srv.URL, time.Second), state, "admin@example.com")
		if err := s.Initialize(ctx); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		return s
	}

	s := open()

	ok, err := s.Authenticate(ctx, "admin@example.com", "password")
	if err != nil || !ok {
		t.Fatalf("Authenticate = (%v, %v)", ok, err)
	}
	// the identity comes from the JWT email claim minted by the server
	if snap := s.Snapshot(); !snap.Session.IsAdmin() {
		t.Fatalf("expected admin session, got %+v", snap.Session)
	}

	created, err := s.AddProduct(ctx, domain.Product{Name: "Bonsai", Price: 30, Stock: 2})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	if err := s.AddToCart(ctx, created, 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	// a restart retains both session and cart
	s = open()
	snap := s.Snapshot()
	if snap.Session == nil || snap.Session.Email != "admin@example.com" {
		t.Fatalf("session lost across restart: %+v", snap.Session)
	}
	if snap.Cart.Count() != 1 {
		t.Fatalf("cart lost across restart: %+v", snap.Cart)
	}
	if len(snap.Products) != 2 {
		t.Fatalf("expected 2 products on the server, got %d", len(snap.Products))
	}

	if err := s.Checkout(ctx); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	// server-side stock decremented, cart durably empty
	s = open()
	snap = s.Snapshot()
	if snap.Cart.Count() != 0 {
		t.Error("cart must be empty after checkout and restart")
	}
	for _, p := range snap.Products {
		if p.ID == created.ID && p.Stock != 1 {
			t.Errorf("server stock = %d, want 1", p.Stock)
		}
	}
}
