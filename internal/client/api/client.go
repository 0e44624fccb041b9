// Package api implements the typed REST client for the storefront backend.
// The backend owns identity, catalog, and (in server cart mode) the
// authoritative cart; this package only maps its HTTP surface onto Go types
// and sentinel errors.
package api

import (
	"context"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
)

// Client is the backend surface consumed by the session manager, cart store,
// and catalog service.
//
// Error contract:
//   - transport failures wrap common.ErrNetwork,
//   - rejected credentials map to common.ErrInvalidCredentials,
//   - cart calls without a valid token map to common.ErrAuthRequired,
//   - missing cart entries map to common.ErrNotFound,
//   - rejected registration payloads map to *common.ValidationError.
type Client interface {
	// Login exchanges credentials for an access token.
	Login(ctx context.Context, username, password string) (string, error)
	// CurrentUser resolves the identity behind the current bearer token.
	CurrentUser(ctx context.Context) (*models.User, error)
	Register(ctx context.Context, r models.Registration) error

	Categories(ctx context.Context) ([]models.Category, error)
	// Products lists products; categoryID 0 means all categories.
	Products(ctx context.Context, categoryID int64) ([]models.Product, error)

	Cart(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error
}
