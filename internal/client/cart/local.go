package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/client/repositories/state"
	"github.com/dmitrijs2005/gophstore/internal/common"
	"github.com/dmitrijs2005/gophstore/internal/dbx"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

const (
	localItemsKey     = "cart.items"
	localUpdatedAtKey = "cart.updated_at"
)

// LocalStore keeps the cart entirely in client-durable storage: items are
// the sole source of truth, mutated synchronously in memory and mirrored to
// the local database on every change. No network calls, no authentication
// requirement, and contents survive logout.
type LocalStore struct {
	db  *sql.DB
	log logging.Logger

	mu    sync.Mutex
	items []models.CartItem
}

// NewLocalStore loads any previously persisted cart from db.
func NewLocalStore(ctx context.Context, db *sql.DB, log logging.Logger) (*LocalStore, error) {
	s := &LocalStore{db: db, log: log}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) load(ctx context.Context) error {
	repo := state.NewSQLiteRepository(s.db)
	raw, err := repo.Get(ctx, localItemsKey)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if raw == nil {
		return nil
	}
	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode persisted cart: %w", err)
	}
	s.items = items
	return nil
}

// persist mirrors the current items (and the update timestamp) to storage in
// one transaction. Callers must hold s.mu.
func (s *LocalStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, localItemsKey, raw); err != nil {
			return err
		}
		return repo.Set(ctx, localUpdatedAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

func (s *LocalStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *LocalStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

func (s *LocalStore) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Loading is always false: local mutations are synchronous.
func (s *LocalStore) Loading() bool { return false }

// Refresh re-reads the persisted cart.
func (s *LocalStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.load(ctx)
}

// apply runs fn against the in-memory items and mirrors the result to
// storage, restoring the previous items if the mirror write fails.
func (s *LocalStore) apply(ctx context.Context, fn func(items []models.CartItem) ([]models.CartItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.items
	next, err := fn(cloneItems(s.items))
	if err != nil {
		return err
	}
	s.items = next
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return err
	}
	return nil
}

func (s *LocalStore) Add(ctx context.Context, product models.Product, quantity int) error {
	quantity = clampQuantity(quantity)
	return s.apply(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].Product.IDProduct == product.IDProduct {
				items[i].Quantity += quantity
				return items, nil
			}
		}
		return append(items, models.CartItem{Product: product, Quantity: quantity}), nil
	})
}

func (s *LocalStore) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	quantity = clampQuantity(quantity)
	return s.apply(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].Product.IDProduct == productID {
				items[i].Quantity = quantity
				return items, nil
			}
		}
		return nil, common.ErrNotFound
	})
}

func (s *LocalStore) Remove(ctx context.Context, productID int64) error {
	return s.apply(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].Product.IDProduct == productID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		// Absent line: nothing to do.
		return items, nil
	})
}

func (s *LocalStore) Clear(ctx context.Context) error {
	return s.apply(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		return nil, nil
	})
}
