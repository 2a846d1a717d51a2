// Command stubapi runs a local stand-in for the storefront API so the
// client can be developed and demoed without the real backend.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"storefront/internal/domain"
	"storefront/internal/stubapi"
)

func main() {
	addr := env("ADDR", ":3001")
	secret := env("JWT_SECRET", "storefront-dev-secret")
	seedPath := os.Getenv("SEED_FILE")

	var seed []domain.Product
	if seedPath != "" {
		raw, err := os.ReadFile(seedPath)
		if err != nil {
			log.Fatalf("read seed file: %v", err)
		}
		if err := json.Unmarshal(raw, &seed); err != nil {
			log.Fatalf("parse seed file: %v", err)
		}
	}

	srv := stubapi.New([]byte(secret), seed...)
	if err := srv.AddUser(env("ADMIN_EMAIL", "admin@example.com"), env("ADMIN_PASSWORD", "password")); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	if err := srv.AddUser(env("CUSTOMER_EMAIL", "customer@example.com"), env("CUSTOMER_PASSWORD", "password")); err != nil {
		log.Fatalf("seed customer user: %v", err)
	}

	log.Printf("stub API listening on %s (%d seed products)", addr, len(seed))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
