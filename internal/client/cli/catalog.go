package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophstore/internal/client/catalog"
)

// overview shows each category with its product count, plus the catalog total.
func (a *App) overview(ctx context.Context) {
	categories, products, err := a.catalog.Overview(ctx)
	if err != nil {
		a.printError("Could not load catalog overview: %v", err)
		return
	}

	counts := make(map[int64]int, len(categories))
	for _, p := range products {
		counts[p.IDCategory]++
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			strconv.FormatInt(c.IDCategory, 10),
			c.Name,
			strconv.Itoa(counts[c.IDCategory]),
		})
	}
	a.renderTable([]string{"ID", "Category", "Products"}, rows)
	fmt.Fprintf(a.out, "Products total: %d\n", len(products))
}

func (a *App) listCategories(ctx context.Context) {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		a.printError("Could not load categories: %v", err)
		return
	}
	a.renderCategories(categories)
}

// listProducts shows products for a category, or the whole catalog when no
// category id is given.
func (a *App) listProducts(ctx context.Context, args []string) {
	categoryID := catalog.AllCategories
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			a.printError("Invalid category id: %s", args[0])
			return
		}
		categoryID = id
	}

	products, err := a.catalog.Products(ctx, categoryID)
	if err != nil {
		a.printError("Could not load products: %v", err)
		return
	}
	a.renderProducts(products)
}
