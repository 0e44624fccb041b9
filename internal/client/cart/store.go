// Package cart owns the client's shopping cart state. Two persistence modes
// exist behind one contract: a server-synchronized store whose items mirror
// the backend's authoritative cart, and a local-persisted store whose items
// live in the local database and never touch the network. The mode is fixed
// at construction and never mixed at runtime.
package cart

import (
	"context"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
)

// Mode selects how a cart persists its state.
type Mode string

const (
	ModeServer Mode = "server"
	ModeLocal  Mode = "local"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m == ModeServer || m == ModeLocal
}

// Store is the single cart contract, identical across persistence modes.
//
// Invariants, both modes:
//   - every item quantity is >= 1,
//   - no two items share a product id,
//   - totals are pure derivations over the current items, no side effects.
//
// Mutations report failure to the caller; they are never retried here and
// errors are never swallowed. Callers should treat Loading() as a
// cooperative signal and avoid firing a second mutation while one is
// outstanding; stores additionally serialize mutations internally.
type Store interface {
	// Items returns a copy of the current cart lines.
	Items() []models.CartItem
	TotalItems() int
	TotalPrice() float64
	Loading() bool

	// Refresh reloads items from the backing source of truth.
	Refresh(ctx context.Context) error

	// Add inserts a new line or increments the quantity of an existing one.
	Add(ctx context.Context, product models.Product, quantity int) error
	// SetQuantity sets an existing line's quantity, clamped to a minimum
	// of 1. An unknown product id yields common.ErrNotFound.
	SetQuantity(ctx context.Context, productID int64, quantity int) error
	// Remove deletes a line; removing an absent line is a no-op.
	Remove(ctx context.Context, productID int64) error
	// Clear empties the cart in a single destructive operation.
	Clear(ctx context.Context) error
}

func totalItems(items []models.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func totalPrice(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += float64(it.Quantity) * it.Product.PricePerUnit
	}
	return total
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
