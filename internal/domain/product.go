// Package domain contains the core business entities and ports.
package domain

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// Product represents a purchasable item in the catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ShortDesc   string  `json:"shortDesc"`
	Description string  `json:"description"`
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewProductID generates a unique product identifier: a random base36
// token followed by the current timestamp in base36. IDs are assigned
// client-side before the create request is submitted.
func NewProductID() string {
	b := make([]byte, 11)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b) + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
