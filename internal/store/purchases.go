package store

import (
	"context"
	"fmt"

	"shopfront/cli/internal/logging"
)

// FetchPurchases loads the current user's purchase history, newest first,
// replacing local state wholesale. Without a session it is a no-op; on
// failure the error is logged and local state is left unchanged.
func (c *Cart) FetchPurchases(ctx context.Context) {
	userID := c.session.UserID()
	if userID == "" {
		return
	}

	rows, err := c.tables.ListPurchases(ctx, userID)
	if err != nil {
		logging.Warnf("fetching purchases: %s", logging.PresentError("", err))
		return
	}

	purchases := make([]Purchase, 0, len(rows))
	for _, row := range rows {
		items := make([]string, 0, len(row.Items))
		for _, line := range row.Items {
			name := unknownProduct
			if line.Product != nil && line.Product.Name != "" {
				name = line.Product.Name
			}
			items = append(items, fmt.Sprintf("%s x%d", name, line.Quantity))
		}
		purchases = append(purchases, Purchase{
			ID:     row.ID,
			Date:   row.CreatedAt.Format("2006-01-02"),
			Items:  items,
			Total:  row.TotalAmount,
			Status: row.Status,
		})
	}
	c.purchases = purchases
}
