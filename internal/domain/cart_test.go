package domain

import (
	"strings"
	"testing"
)

func TestCartDerivedValues(t *testing.T) {
	cart := Cart{
		"a": {Product: Product{ID: "a", Price: 2.5}, Quantity: 2},
		"b": {Product: Product{ID: "b", Price: 10}, Quantity: 3},
	}

	if got := cart.Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if got := cart.TotalQuantity(); got != 5 {
		t.Errorf("TotalQuantity = %d, want 5", got)
	}
	if got := cart.Total(); got != 35 {
		t.Errorf("Total = %v, want 35", got)
	}
}

func TestCartClone(t *testing.T) {
	cart := Cart{"a": {Product: Product{ID: "a"}, Quantity: 1}}
	clone := cart.Clone()

	clone["a"] = CartLine{Product: Product{ID: "a"}, Quantity: 9}
	if cart["a"].Quantity != 1 {
		t.Error("mutating the clone must not touch the original")
	}
}

func TestNewProductID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewProductID()
		if id == "" {
			t.Fatal("empty ID")
		}
		if strings.ToLower(id) != id {
			t.Errorf("ID %q is not lower-case base36", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestSessionIsAdmin(t *testing.T) {
	var anon *Session
	if anon.IsAdmin() {
		t.Error("nil session must not be admin")
	}
	if (&Session{AccessLevel: AccessCustomer}).IsAdmin() {
		t.Error("customer must not be admin")
	}
	if !(&Session{AccessLevel: AccessAdmin}).IsAdmin() {
		t.Error("admin session must be admin")
	}
}
