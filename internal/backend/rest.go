// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shopfront/cli/internal/logging"
)

// restHTTP implements Tables over PostgREST-style endpoints.
// Filters are expressed as query operators (eq., in., ilike.) and writes ask
// for the inserted representation back so local state can be patched with
// server-assigned ids.
type restHTTP struct {
	h      *HTTP
	tokens TokenProvider
}

func newRestHTTP(h *HTTP, tokens TokenProvider) *restHTTP {
	return &restHTTP{h: h, tokens: tokens}
}

// token returns the current access token, or "" for anonymous access.
func (r *restHTTP) token() string {
	if r.tokens == nil {
		return ""
	}
	return r.tokens()
}

// get issues a read against one table and decodes the row array into out.
func (r *restHTTP) get(ctx context.Context, table string, query url.Values, out any) error {
	req, err := r.h.newRequest(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, r.token())
	if err != nil {
		return err
	}
	return r.h.do(req, out)
}

// write issues an insert/update/delete. When out is non-nil the request asks
// the backend to return the affected rows.
func (r *restHTTP) write(ctx context.Context, method, table string, query url.Values, body, out any) error {
	req, err := r.h.newRequest(ctx, method, "/rest/v1/"+table, query, body, r.token())
	if err != nil {
		return err
	}
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	}
	return r.h.do(req, out)
}

// ListProducts returns the product catalog, optionally narrowed by category
// or a case-insensitive name search.
func (r *restHTTP) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductRow, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")
	if filter.Category != "" {
		q.Set("category", "eq."+filter.Category)
	}
	if filter.Search != "" {
		q.Set("name", "ilike.*"+filter.Search+"*")
	}

	var rows []ProductRow
	if err := r.get(ctx, "products", q, &rows); err != nil {
		return nil, err
	}

	valid := rows[:0]
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			logging.Warnf("dropping malformed product row: %v", err)
			continue
		}
		valid = append(valid, rows[i])
	}
	return valid, nil
}

// ListCartItems returns the user's cart lines joined with product details.
func (r *restHTTP) ListCartItems(ctx context.Context, userID string) ([]CartItemRow, error) {
	q := url.Values{}
	q.Set("select", "id,user_id,product_id,quantity,products(*)")
	q.Set("user_id", "eq."+userID)

	var rows []CartItemRow
	if err := r.get(ctx, "cart_items", q, &rows); err != nil {
		return nil, err
	}

	valid := rows[:0]
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			logging.Warnf("dropping malformed cart row: %v", err)
			continue
		}
		valid = append(valid, rows[i])
	}
	return valid, nil
}

// FindCartItem looks up the single line for (user, product). Returns nil
// without error when no such line exists.
func (r *restHTTP) FindCartItem(ctx context.Context, userID string, productID int64) (*CartItemRow, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)
	q.Set("product_id", "eq."+strconv.FormatInt(productID, 10))
	q.Set("limit", "1")

	var rows []CartItemRow
	if err := r.get(ctx, "cart_items", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := rows[0].Validate(); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// InsertCartItem creates a new line and returns it with its server-assigned id.
func (r *restHTTP) InsertCartItem(ctx context.Context, userID string, productID int64, quantity int) (*CartItemRow, error) {
	body := []map[string]any{{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}}

	var rows []CartItemRow
	if err := r.write(ctx, http.MethodPost, "cart_items", nil, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no row")
	}
	if err := rows[0].Validate(); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// UpdateCartItemQuantity sets the quantity of one line by id.
func (r *restHTTP) UpdateCartItemQuantity(ctx context.Context, id int64, quantity int) (*CartItemRow, error) {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	body := map[string]any{"quantity": quantity}

	var rows []CartItemRow
	if err := r.write(ctx, http.MethodPatch, "cart_items", q, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cart item %d not found", id)
	}
	return &rows[0], nil
}

// DeleteCartItem removes one line by id.
func (r *restHTTP) DeleteCartItem(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return r.write(ctx, http.MethodDelete, "cart_items", q, nil, nil)
}

// DeleteCartItems removes a batch of lines with an in.() filter.
func (r *restHTTP) DeleteCartItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("id", "in.("+strings.Join(parts, ",")+")")
	return r.write(ctx, http.MethodDelete, "cart_items", q, nil, nil)
}

// InsertPurchase creates one purchase header and returns it with its id.
func (r *restHTTP) InsertPurchase(ctx context.Context, userID string, totalAmount float64, status string) (*PurchaseRow, error) {
	body := []map[string]any{{
		"user_id":      userID,
		"total_amount": totalAmount,
		"status":       status,
	}}

	var rows []PurchaseRow
	if err := r.write(ctx, http.MethodPost, "purchases", nil, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no row")
	}
	if err := rows[0].Validate(); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// InsertPurchaseItems creates the purchase lines referencing a header.
func (r *restHTTP) InsertPurchaseItems(ctx context.Context, items []PurchaseItemInsert) error {
	if len(items) == 0 {
		return nil
	}
	return r.write(ctx, http.MethodPost, "purchase_items", nil, items, nil)
}

// ListPurchases returns the user's purchase headers with nested lines and
// product names, newest first.
func (r *restHTTP) ListPurchases(ctx context.Context, userID string) ([]PurchaseRow, error) {
	q := url.Values{}
	q.Set("select", "id,user_id,created_at,total_amount,status,purchase_items(quantity,products(name))")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "created_at.desc")

	var rows []PurchaseRow
	if err := r.get(ctx, "purchases", q, &rows); err != nil {
		return nil, err
	}

	valid := rows[:0]
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			logging.Warnf("dropping malformed purchase row: %v", err)
			continue
		}
		valid = append(valid, rows[i])
	}
	return valid, nil
}
