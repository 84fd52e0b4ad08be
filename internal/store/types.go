// Package store holds the client-side cart and purchase-history state for the
// current user. The collections here always chase the remote tables: local
// mutation is applied after a remote write succeeds, never before. The store
// reads the session's user id before every remote operation and degrades to a
// no-op (or a typed error, for checkout) when no session is present.
package store

import (
	"strconv"

	"shopfront/cli/internal/backend"
)

// Product is the view-friendly product shape. The id is a string at this
// layer; the remote tables key products by integer id.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
}

// CartItem is one line of the current user's cart.
type CartItem struct {
	// ID is the server-assigned row id.
	ID        int64
	ProductID int64
	Quantity  int
	Product   Product
}

// Purchase is one historical purchase rendered for display.
type Purchase struct {
	ID int64
	// Date is the purchase creation date formatted YYYY-MM-DD.
	Date string
	// Items holds one display string per line, e.g. "Widget x3".
	Items  []string
	Total  float64
	Status string
}

// unknownProduct is the display fallback when a purchase line's product
// relation no longer resolves.
const unknownProduct = "Unknown product"

// productFromRow reshapes a table row into the view model.
func productFromRow(row backend.ProductRow) Product {
	return Product{
		ID:          strconv.FormatInt(row.ID, 10),
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		ImageURL:    row.ImageURL,
		Category:    row.Category,
	}
}
