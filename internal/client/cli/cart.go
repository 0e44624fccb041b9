package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/gophstore/internal/client/catalog"
	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
)

func (a *App) showCart(ctx context.Context) {
	if err := a.cart.Refresh(ctx); err != nil {
		a.printCartError(err)
		return
	}
	a.renderCart(a.cart.Items(), a.cart.TotalItems(), a.cart.TotalPrice())
}

func (a *App) addToCart(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		a.printError("Usage: add <product-id> [qty]")
		return
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || productID <= 0 {
		a.printError("Invalid product id: %s", args[0])
		return
	}
	quantity := 1
	if len(args) == 2 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			a.printError("Invalid quantity: %s", args[1])
			return
		}
	}

	product, err := a.findProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.printError("No product with id %d.", productID)
			return
		}
		a.printError("Could not look up product: %v", err)
		return
	}

	if err := a.cart.Add(ctx, product, quantity); err != nil {
		a.printCartError(err)
		return
	}
	a.printSuccess("Added %s to the cart.", product.Name)
}

func (a *App) setQuantity(ctx context.Context, args []string) {
	if len(args) != 2 {
		a.printError("Usage: setqty <product-id> <qty>")
		return
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || productID <= 0 {
		a.printError("Invalid product id: %s", args[0])
		return
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		a.printError("Invalid quantity: %s", args[1])
		return
	}

	if err := a.cart.SetQuantity(ctx, productID, quantity); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.printError("Product %d is not in the cart.", productID)
			return
		}
		a.printCartError(err)
		return
	}
	a.printSuccess("Quantity updated.")
}

func (a *App) removeFromCart(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printError("Usage: remove <product-id>")
		return
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || productID <= 0 {
		a.printError("Invalid product id: %s", args[0])
		return
	}

	if err := a.cart.Remove(ctx, productID); err != nil {
		a.printCartError(err)
		return
	}
	a.printSuccess("Removed.")
}

func (a *App) clearCart(ctx context.Context) {
	if err := a.cart.Clear(ctx); err != nil {
		a.printCartError(err)
		return
	}
	a.printSuccess("Cart cleared.")
}

// findProduct resolves a product id against the (cached) full catalog.
func (a *App) findProduct(ctx context.Context, productID int64) (models.Product, error) {
	products, err := a.catalog.Products(ctx, catalog.AllCategories)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.IDProduct == productID {
			return p, nil
		}
	}
	return models.Product{}, common.ErrNotFound
}

func (a *App) printCartError(err error) {
	switch {
	case errors.Is(err, common.ErrAuthRequired):
		a.printWarning("Please log in to use the cart.")
	case errors.Is(err, common.ErrNetwork):
		a.printError("Could not reach the server. Your cart was not changed.")
	default:
		a.printError("Cart operation failed: %v", err)
	}
}
