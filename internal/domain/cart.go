package domain

// CartLine is one entry in the cart: a snapshot of the product at the
// time it was last added, plus the desired quantity. Quantity never
// exceeds the snapshot's Stock and never goes negative.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"amount"`
}

// Cart maps a product ID to its cart line. The product ID is the single
// canonical cart key; lines are unordered.
type Cart map[string]CartLine

// Count returns the number of distinct lines in the cart.
func (c Cart) Count() int {
	return len(c)
}

// TotalQuantity returns the sum of quantities across all lines.
func (c Cart) TotalQuantity() int {
	var n int
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// Total returns the cart total: unit price times quantity, summed over
// all lines, priced from the snapshots.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
