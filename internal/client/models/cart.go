package models

// CartItem is one cart line: a product reference and a quantity.
// Invariants maintained by the cart store: Quantity >= 1, and no two items
// share the same Product.IDProduct.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
