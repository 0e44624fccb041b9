package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

// API is the slice of the backend client a server-mode cart uses.
type API interface {
	Cart(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error
}

// AuthView is a read-only view of session state. The cart never mutates the
// session; it only gates server calls on it.
type AuthView interface {
	Authenticated() bool
}

// ServerStore keeps the backend as the sole source of truth: every mutation
// is a request followed by a full refetch, and Items always mirrors the last
// successful server read. A failed mutation leaves the mirror untouched; if
// the request landed but its response was lost, the refetch on the next
// operation reconciles to the true server state instead of double-applying.
//
// Mutations are serialized by an internal mutex, so at most one is in flight
// at a time; Loading reports whether one is.
type ServerStore struct {
	api  API
	auth AuthView
	log  logging.Logger

	mu      sync.Mutex
	items   []models.CartItem
	loading atomic.Bool
}

func NewServerStore(api API, auth AuthView, log logging.Logger) *ServerStore {
	return &ServerStore{api: api, auth: auth, log: log}
}

func (s *ServerStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *ServerStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

func (s *ServerStore) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

func (s *ServerStore) Loading() bool {
	return s.loading.Load()
}

// Refresh replaces the mirror with the backend's current cart. Without an
// authenticated session there is nothing to read: the mirror empties and no
// request is made.
func (s *ServerStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.Authenticated() {
		s.items = nil
		return nil
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	items, err := s.api.Cart(ctx)
	if err != nil {
		return err
	}
	s.applyFetched(ctx, items)
	return nil
}

// applyFetched installs a fetched cart unless the session ended while the
// request was outstanding; a response for a logged-out session is discarded.
// Callers must hold s.mu.
func (s *ServerStore) applyFetched(ctx context.Context, items []models.CartItem) {
	if !s.auth.Authenticated() {
		s.log.Info(ctx, "discarding cart response for ended session")
		return
	}
	s.items = items
}

// mutate runs op against the backend and refetches the authoritative cart.
// The in-memory mirror changes only after both steps succeed.
func (s *ServerStore) mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if !s.auth.Authenticated() {
		return common.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading.Store(true)
	defer s.loading.Store(false)

	if err := op(ctx); err != nil {
		return err
	}

	items, err := s.api.Cart(ctx)
	if err != nil {
		// The mutation has been applied server-side but the refetch was
		// lost; keep the last known-good mirror and surface the error.
		return err
	}
	s.applyFetched(ctx, items)
	return nil
}

func (s *ServerStore) Add(ctx context.Context, product models.Product, quantity int) error {
	quantity = clampQuantity(quantity)
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.AddCartItem(ctx, product.IDProduct, quantity)
	})
}

func (s *ServerStore) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	quantity = clampQuantity(quantity)
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.UpdateCartItem(ctx, productID, quantity)
	})
}

func (s *ServerStore) Remove(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		err := s.api.RemoveCartItem(ctx, productID)
		if errors.Is(err, common.ErrNotFound) {
			// Removing an absent line is a no-op, not an error.
			return nil
		}
		return err
	})
}

// Clear is a single destructive call, never a loop of per-item removals, so
// a partial failure cannot leave a half-cleared cart.
func (s *ServerStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.ClearCart(ctx)
	})
}

// Reset empties the in-memory mirror without touching the backend. The
// session's logout hook calls this: the server cart belongs to the account,
// so a logged-out client must not keep showing it.
func (s *ServerStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
