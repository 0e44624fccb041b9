// Package models defines the data types exchanged with the storefront
// backend and kept in client state. JSON tags follow the backend wire names.
package models

// Category is a product category as returned by the catalog endpoint.
type Category struct {
	IDCategory int64  `json:"id_category"`
	Name       string `json:"name"`
}

// Product describes a catalog item. The cart never mutates product fields;
// they are display and price-derivation inputs only.
type Product struct {
	IDProduct      int64   `json:"id_product"`
	Name           string  `json:"name"`
	PricePerUnit   float64 `json:"price_per_unit"`
	UnitType       string  `json:"unit_type"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
	IDCategory     int64   `json:"id_category,omitempty"`
	IDCountry      int64   `json:"id_country,omitempty"`
}
