// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRest(t *testing.T, tokens TokenProvider, handler http.HandlerFunc) *restHTTP {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newRestHTTP(newHTTP(srv.URL, "anon-key"), tokens)
}

func TestListProductsQueryAndHeaders(t *testing.T) {
	var got *http.Request
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode([]ProductRow{
			{ID: 1, Name: "Widget", Price: 9.99, Category: "tools"},
		})
	})

	rows, err := rest.ListProducts(context.Background(), ProductFilter{Category: "tools", Search: "wid"})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0].Name)

	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/products", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "name.asc", q.Get("order"))
	assert.Equal(t, "eq.tools", q.Get("category"))
	assert.Equal(t, "ilike.*wid*", q.Get("name"))
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	// Anonymous reads fall back to the API key as bearer
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get("X-Client-Request-Id"))
}

func TestListProductsDropsMalformedRows(t *testing.T) {
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]ProductRow{
			{ID: 1, Name: "Widget", Price: 9.99},
			{ID: 0, Name: "Broken"},
			{ID: 2, Name: "", Price: 1},
		})
	})

	rows, err := rest.ListProducts(context.Background(), ProductFilter{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
}

func TestListCartItemsSendsBearerToken(t *testing.T) {
	var got *http.Request
	rest := newTestRest(t, func() string { return "user-token" }, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode([]CartItemRow{})
	})

	_, err := rest.ListCartItems(context.Background(), "u1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bearer user-token", got.Header.Get("Authorization"))
	q := got.URL.Query()
	assert.Equal(t, "eq.u1", q.Get("user_id"))
	assert.Equal(t, "id,user_id,product_id,quantity,products(*)", q.Get("select"))
}

func TestFindCartItemAbsentReturnsNil(t *testing.T) {
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.u1", q.Get("user_id"))
		assert.Equal(t, "eq.10", q.Get("product_id"))
		assert.Equal(t, "1", q.Get("limit"))
		_ = json.NewEncoder(w).Encode([]CartItemRow{})
	})

	row, err := rest.FindCartItem(context.Background(), "u1", 10)

	require.NoError(t, err)
	assert.Nil(t, row, "an absent line is nil, not an error")
}

func TestInsertCartItemAsksForRepresentation(t *testing.T) {
	var got *http.Request
	var body []map[string]any
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode([]CartItemRow{
			{ID: 42, UserID: "u1", ProductID: 10, Quantity: 1},
		})
	})

	row, err := rest.InsertCartItem(context.Background(), "u1", 10, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(42), row.ID)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/rest/v1/cart_items", got.URL.Path)
	assert.Equal(t, "return=representation", got.Header.Get("Prefer"))
	require.Len(t, body, 1)
	assert.Equal(t, "u1", body[0]["user_id"])
	assert.Equal(t, float64(10), body[0]["product_id"])
}

func TestUpdateCartItemQuantityPatchesByID(t *testing.T) {
	var got *http.Request
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode([]CartItemRow{{ID: 5, Quantity: 4}})
	})

	row, err := rest.UpdateCartItemQuantity(context.Background(), 5, 4)

	require.NoError(t, err)
	assert.Equal(t, 4, row.Quantity)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "eq.5", got.URL.Query().Get("id"))
}

func TestDeleteCartItemsUsesInFilter(t *testing.T) {
	var got *http.Request
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	})

	err := rest.DeleteCartItems(context.Background(), []int64{1, 2, 3})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "in.(1,2,3)", got.URL.Query().Get("id"))
	assert.Empty(t, got.Header.Get("Prefer"), "deletes do not ask for rows back")
}

func TestDeleteCartItemsEmptySkipsRequest(t *testing.T) {
	called := false
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := rest.DeleteCartItems(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, called)
}

func TestListPurchasesQueryShape(t *testing.T) {
	var got *http.Request
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewEncoder(w).Encode([]PurchaseRow{})
	})

	_, err := rest.ListPurchases(context.Background(), "u1")

	require.NoError(t, err)
	require.NotNil(t, got)
	q := got.URL.Query()
	assert.Equal(t, "id,user_id,created_at,total_amount,status,purchase_items(quantity,products(name))", q.Get("select"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "eq.u1", q.Get("user_id"))
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := rest.ListCartItems(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorCarriesBackendMessage(t *testing.T) {
	rest := newTestRest(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"duplicate key value"}`))
	})

	_, err := rest.InsertCartItem(context.Background(), "u1", 10, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key value")
	assert.Contains(t, err.Error(), "400")
}
