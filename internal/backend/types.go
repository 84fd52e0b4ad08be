// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"fmt"
	"strings"
	"time"
)

// User is the identity record returned by the auth subsystem.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the token bundle issued by the auth subsystem.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// ChangeEvent names an identity-change notification.
type ChangeEvent string

const (
	SignedIn       ChangeEvent = "SIGNED_IN"
	SignedOut      ChangeEvent = "SIGNED_OUT"
	TokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
)

// Change is one identity-change notification. User is nil for sign-out.
type Change struct {
	Event ChangeEvent
	User  *User
}

// ProductFilter narrows a product listing. Zero value lists everything.
type ProductFilter struct {
	Category string
	// Search matches the product name, case-insensitively.
	Search string
}

// ProductRow is a row of the products table.
type ProductRow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// Validate rejects rows the backend should never return. Rows failing
// validation are dropped at the decode boundary rather than trusted.
func (p *ProductRow) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product row: non-positive id %d", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product row %d: empty name", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product row %d: negative price %v", p.ID, p.Price)
	}
	return nil
}

// CartItemRow is a row of the cart_items table, optionally joined with its
// product under the PostgREST relation name.
type CartItemRow struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user_id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   *ProductRow `json:"products"`
}

// Validate rejects malformed cart rows at the decode boundary.
func (c *CartItemRow) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("cart item row: non-positive id %d", c.ID)
	}
	if c.Quantity < 1 {
		return fmt.Errorf("cart item row %d: quantity %d below 1", c.ID, c.Quantity)
	}
	if c.Product != nil {
		if err := c.Product.Validate(); err != nil {
			return fmt.Errorf("cart item row %d: %w", c.ID, err)
		}
	}
	return nil
}

// ProductNameRow carries just the product name for purchase line display.
type ProductNameRow struct {
	Name string `json:"name"`
}

// PurchaseLineRow is a purchase_items row joined with its product name.
// Product may be nil when the relation no longer resolves.
type PurchaseLineRow struct {
	Quantity int             `json:"quantity"`
	Product  *ProductNameRow `json:"products"`
}

// PurchaseRow is a row of the purchases table with its nested lines.
type PurchaseRow struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"user_id"`
	TotalAmount float64           `json:"total_amount"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []PurchaseLineRow `json:"purchase_items"`
}

// Validate rejects malformed purchase rows at the decode boundary.
func (p *PurchaseRow) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("purchase row: non-positive id %d", p.ID)
	}
	if p.TotalAmount < 0 {
		return fmt.Errorf("purchase row %d: negative total %v", p.ID, p.TotalAmount)
	}
	return nil
}

// PurchaseItemInsert is the write shape for one purchase line.
type PurchaseItemInsert struct {
	PurchaseID int64 `json:"purchase_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
}
