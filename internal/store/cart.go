package store

import (
	"context"
	"strconv"

	"shopfront/cli/internal/backend"
	"shopfront/cli/internal/errors"
	"shopfront/cli/internal/logging"
	"shopfront/cli/internal/session"
)

// Cart owns the current user's cart lines and purchase summaries.
// One Cart is live per process; its collections are mutated only by its own
// operations, one at a time.
type Cart struct {
	tables  backend.Tables
	session *session.Store

	items     []CartItem
	purchases []Purchase
}

// New creates a cart store over the given table client and session.
func New(tables backend.Tables, sess *session.Store) *Cart {
	return &Cart{tables: tables, session: sess}
}

// Items returns a copy of the current cart lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Purchases returns a copy of the fetched purchase summaries.
func (c *Cart) Purchases() []Purchase {
	out := make([]Purchase, len(c.purchases))
	copy(out, c.purchases)
	return out
}

// FetchCart loads the current user's cart from the remote table, replacing
// local state wholesale. Without a session it is a no-op; on failure the
// error is logged and local state is left unchanged.
func (c *Cart) FetchCart(ctx context.Context) {
	userID := c.session.UserID()
	if userID == "" {
		return
	}

	rows, err := c.tables.ListCartItems(ctx, userID)
	if err != nil {
		logging.Warnf("fetching cart: %s", logging.PresentError("", err))
		return
	}

	items := make([]CartItem, 0, len(rows))
	for _, row := range rows {
		item := CartItem{
			ID:        row.ID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		}
		if row.Product != nil {
			item.Product = productFromRow(*row.Product)
		}
		items = append(items, item)
	}
	c.items = items
}

// AddItem puts one unit of product into the cart. An existing line for the
// same product is incremented instead of duplicated; the existence check is a
// fresh remote lookup, not a scan of local state. Without a session this is a
// no-op.
//
// Two interleaved AddItem calls for the same product can both observe "no
// existing line" and both insert. The backend's unique index on
// (user_id, product_id) is the real owner of that invariant.
func (c *Cart) AddItem(ctx context.Context, product Product) {
	userID := c.session.UserID()
	if userID == "" {
		return
	}

	productID, err := strconv.ParseInt(product.ID, 10, 64)
	if err != nil {
		logging.Warnf("adding to cart: bad product id %q", product.ID)
		return
	}

	existing, err := c.tables.FindCartItem(ctx, userID, productID)
	if err != nil {
		logging.Warnf("adding to cart: %s", logging.PresentError("lookup", err))
		return
	}

	if existing != nil {
		updated, err := c.tables.UpdateCartItemQuantity(ctx, existing.ID, existing.Quantity+1)
		if err != nil {
			logging.Warnf("incrementing cart line: %s", logging.PresentError("", err))
			return
		}
		for i := range c.items {
			if c.items[i].ID == updated.ID {
				c.items[i].Quantity = updated.Quantity
				break
			}
		}
		return
	}

	inserted, err := c.tables.InsertCartItem(ctx, userID, productID, 1)
	if err != nil {
		logging.Warnf("adding to cart: %s", logging.PresentError("", err))
		return
	}
	// The local entry carries the product passed in; it is not re-fetched.
	c.items = append(c.items, CartItem{
		ID:        inserted.ID,
		ProductID: inserted.ProductID,
		Quantity:  inserted.Quantity,
		Product:   product,
	})
}

// UpdateItemQuantity sets the quantity of an existing line, remotely then
// locally. The remote outcome is not inspected; quantity bounds are the
// caller's responsibility.
func (c *Cart) UpdateItemQuantity(ctx context.Context, id int64, quantity int) {
	_, _ = c.tables.UpdateCartItemQuantity(ctx, id, quantity)

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			break
		}
	}
}

// RemoveItem deletes a line remotely and filters it out locally. A failed
// remote delete is logged but not surfaced.
func (c *Cart) RemoveItem(ctx context.Context, id int64) {
	if err := c.tables.DeleteCartItem(ctx, id); err != nil {
		logging.Warnf("removing cart line: %s", logging.PresentError("", err))
	}

	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Checkout turns the selected cart lines into a purchase.
//
// The sequence is best-effort and non-transactional: the purchase header
// insert fails hard, but line inserts and cart cleanup are logged only, and
// the selected ids are always dropped from local state afterward. There is no
// compensation and no idempotency key; retrying a failed checkout can create
// a duplicate header.
func (c *Cart) Checkout(ctx context.Context, selectedIDs []int64) error {
	userID := c.session.UserID()
	if userID == "" {
		return errors.New(errors.NotAuthenticated, "login required")
	}

	selected := make(map[int64]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}
	var toPurchase []CartItem
	for _, item := range c.items {
		if selected[item.ID] {
			toPurchase = append(toPurchase, item)
		}
	}
	if len(toPurchase) == 0 {
		return errors.New(errors.NothingSelected, "no items selected")
	}

	// Total uses the locally cached prices; they are not re-validated against
	// the server at checkout time.
	var totalAmount float64
	for _, item := range toPurchase {
		totalAmount += item.Product.Price * float64(item.Quantity)
	}

	purchase, err := c.tables.InsertPurchase(ctx, userID, totalAmount, "pending")
	if err != nil {
		return errors.Wrap(errors.PurchaseCreateFailed, "purchase creation failed", err)
	}

	lines := make([]backend.PurchaseItemInsert, 0, len(toPurchase))
	for _, item := range toPurchase {
		lines = append(lines, backend.PurchaseItemInsert{
			PurchaseID: purchase.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
		})
	}
	if err := c.tables.InsertPurchaseItems(ctx, lines); err != nil {
		logging.Warnf("inserting purchase lines: %s", logging.PresentError("", err))
	}

	if err := c.tables.DeleteCartItems(ctx, selectedIDs); err != nil {
		logging.Warnf("cleaning up cart after checkout: %s", logging.PresentError("", err))
	}

	kept := c.items[:0]
	for _, item := range c.items {
		if !selected[item.ID] {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return nil
}
