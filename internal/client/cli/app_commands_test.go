package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophstore/internal/client/catalog"
	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

// ------------ helpers ------------

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeCatalogAPI struct {
	categories []models.Category
	products   []models.Product
	err        error
}

func (f *fakeCatalogAPI) Categories(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalogAPI) Products(ctx context.Context, categoryID int64) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if categoryID == catalog.AllCategories {
		return f.products, nil
	}
	var out []models.Product
	for _, p := range f.products {
		if p.IDCategory == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCart struct {
	items []models.CartItem

	refreshErr error
	addErr     error
	setErr     error
	removeErr  error
	clearErr   error

	added     []models.CartItem
	setCalls  []int64
	removed   []int64
	cleared   bool
	refreshed bool
}

func (f *fakeCart) Items() []models.CartItem { return f.items }
func (f *fakeCart) TotalItems() int {
	n := 0
	for _, it := range f.items {
		n += it.Quantity
	}
	return n
}
func (f *fakeCart) TotalPrice() float64 {
	total := 0.0
	for _, it := range f.items {
		total += float64(it.Quantity) * it.Product.PricePerUnit
	}
	return total
}
func (f *fakeCart) Loading() bool { return false }
func (f *fakeCart) Refresh(ctx context.Context) error {
	f.refreshed = true
	return f.refreshErr
}
func (f *fakeCart) Add(ctx context.Context, p models.Product, q int) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, models.CartItem{Product: p, Quantity: q})
	return nil
}
func (f *fakeCart) SetQuantity(ctx context.Context, productID int64, q int) error {
	f.setCalls = append(f.setCalls, productID)
	return f.setErr
}
func (f *fakeCart) Remove(ctx context.Context, productID int64) error {
	f.removed = append(f.removed, productID)
	return f.removeErr
}
func (f *fakeCart) Clear(ctx context.Context) error {
	f.cleared = true
	return f.clearErr
}

func newTestApp(t *testing.T, api *fakeCatalogAPI, store *fakeCart) (*App, *bytes.Buffer) {
	t.Helper()
	svc, err := catalog.NewService(api, 4, testLogger())
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return &App{
		log:     testLogger(),
		cart:    store,
		catalog: svc,
		out:     out,
	}, out
}

var testProducts = []models.Product{
	{IDProduct: 1, Name: "Milk", PricePerUnit: 1.50, UnitType: "l", IDCategory: 1},
	{IDProduct: 2, Name: "Bread", PricePerUnit: 2.00, UnitType: "pc", IDCategory: 2},
}

// ------------ tests ------------

func TestAddToCart_LooksUpProductAndAdds(t *testing.T) {
	store := &fakeCart{}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.addToCart(context.Background(), []string{"2", "3"})

	require.Len(t, store.added, 1)
	assert.Equal(t, int64(2), store.added[0].Product.IDProduct)
	assert.Equal(t, 3, store.added[0].Quantity)
	assert.Contains(t, out.String(), "Added Bread")
}

func TestAddToCart_DefaultsQuantityToOne(t *testing.T) {
	store := &fakeCart{}
	app, _ := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.addToCart(context.Background(), []string{"1"})

	require.Len(t, store.added, 1)
	assert.Equal(t, 1, store.added[0].Quantity)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	store := &fakeCart{}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.addToCart(context.Background(), []string{"99"})

	assert.Empty(t, store.added)
	assert.Contains(t, out.String(), "No product with id 99")
}

func TestAddToCart_InvalidArgs(t *testing.T) {
	store := &fakeCart{}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.addToCart(context.Background(), []string{"abc"})

	assert.Empty(t, store.added)
	assert.Contains(t, out.String(), "Invalid product id")
}

func TestAddToCart_AuthRequired(t *testing.T) {
	store := &fakeCart{addErr: common.ErrAuthRequired}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.addToCart(context.Background(), []string{"1"})

	assert.Contains(t, out.String(), "Please log in")
}

func TestSetQuantity_NotInCart(t *testing.T) {
	store := &fakeCart{setErr: common.ErrNotFound}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.setQuantity(context.Background(), []string{"7", "2"})

	assert.Equal(t, []int64{7}, store.setCalls)
	assert.Contains(t, out.String(), "not in the cart")
}

func TestRemoveFromCart(t *testing.T) {
	store := &fakeCart{}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.removeFromCart(context.Background(), []string{"1"})

	assert.Equal(t, []int64{1}, store.removed)
	assert.Contains(t, out.String(), "Removed")
}

func TestClearCart_NetworkErrorLeavesMessage(t *testing.T) {
	store := &fakeCart{clearErr: common.ErrNetwork}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.clearCart(context.Background())

	assert.True(t, store.cleared)
	assert.Contains(t, out.String(), "Could not reach the server")
}

func TestShowCart_RefreshesThenRenders(t *testing.T) {
	store := &fakeCart{items: []models.CartItem{
		{Product: testProducts[0], Quantity: 2},
	}}
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, store)

	app.showCart(context.Background())

	assert.True(t, store.refreshed)
	s := out.String()
	assert.Contains(t, s, "Milk")
	assert.Contains(t, s, "Items: 2")
	assert.Contains(t, s, "3.00")
}

func TestShowCart_Empty(t *testing.T) {
	store := &fakeCart{}
	app, out := newTestApp(t, &fakeCatalogAPI{}, store)

	app.showCart(context.Background())

	assert.Contains(t, out.String(), "Your cart is empty")
}

func TestListProducts_FiltersByCategory(t *testing.T) {
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, &fakeCart{})

	app.listProducts(context.Background(), []string{"1"})

	s := out.String()
	assert.Contains(t, s, "Milk")
	assert.NotContains(t, s, "Bread")
}

func TestListProducts_InvalidCategory(t *testing.T) {
	app, out := newTestApp(t, &fakeCatalogAPI{products: testProducts}, &fakeCart{})

	app.listProducts(context.Background(), []string{"zero"})

	assert.Contains(t, out.String(), "Invalid category id")
}

func TestListCategories(t *testing.T) {
	app, out := newTestApp(t, &fakeCatalogAPI{categories: []models.Category{
		{IDCategory: 1, Name: "Dairy"},
	}}, &fakeCart{})

	app.listCategories(context.Background())

	assert.Contains(t, out.String(), "Dairy")
}

func TestOverview_ShowsCountsPerCategory(t *testing.T) {
	app, out := newTestApp(t, &fakeCatalogAPI{
		categories: []models.Category{
			{IDCategory: 1, Name: "Dairy"},
			{IDCategory: 2, Name: "Bakery"},
		},
		products: testProducts,
	}, &fakeCart{})

	app.overview(context.Background())

	s := out.String()
	assert.Contains(t, s, "Dairy")
	assert.Contains(t, s, "Bakery")
	assert.Contains(t, s, "Products total: 2")
}

func TestHelp_ListsCommands(t *testing.T) {
	app, out := newTestApp(t, &fakeCatalogAPI{}, &fakeCart{})

	app.help()

	s := out.String()
	for _, cmd := range []string{"login", "cart", "setqty", "checkout"} {
		assert.Contains(t, s, cmd)
	}
}

func TestReaderFromLinesHelper(t *testing.T) {
	r := readerFromLines("alice", "pw")
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "alice\n", line)
}

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}
