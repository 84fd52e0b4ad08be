// Copyright (c) 2025 Shopfront
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package diag inspects the storefront's backing Postgres schema directly.
// Hosted backends of this kind expose the underlying database alongside the
// REST surface; connecting to it lets operators verify that the four
// storefront tables exist with the columns the client writes to, without
// going through the row-filtered API.
package diag

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TableCheck names one required table and the columns the client relies on.
type TableCheck struct {
	Name    string
	Columns []string
}

// StorefrontTables lists the remote tables this client reads and writes.
var StorefrontTables = []TableCheck{
	{Name: "products", Columns: []string{"id", "name", "description", "price", "image_url", "category"}},
	{Name: "cart_items", Columns: []string{"id", "user_id", "product_id", "quantity"}},
	{Name: "purchases", Columns: []string{"id", "user_id", "total_amount", "status", "created_at"}},
	{Name: "purchase_items", Columns: []string{"id", "purchase_id", "product_id", "quantity"}},
}

// Report is the inspection result for one table.
type Report struct {
	Table          string
	Present        bool
	MissingColumns []string
}

// OK reports whether the table is usable as-is.
func (r Report) OK() bool {
	return r.Present && len(r.MissingColumns) == 0
}

// Inspector checks the storefront schema over a pgx connection pool.
type Inspector struct {
	pool *pgxpool.Pool
}

// NewInspector creates an inspector over an open pool.
func NewInspector(pool *pgxpool.Pool) *Inspector {
	return &Inspector{pool: pool}
}

// Connect opens a pool for the given DSN and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(cctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(cctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Check inspects every storefront table and reports missing tables/columns.
func (in *Inspector) Check(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(StorefrontTables))
	for _, tc := range StorefrontTables {
		r, err := in.checkTable(ctx, tc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// checkTable loads the table's column set from information_schema and diffs
// it against the required columns.
func (in *Inspector) checkTable(ctx context.Context, tc TableCheck) (Report, error) {
	conn, err := in.pool.Acquire(ctx)
	if err != nil {
		return Report{}, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1`, tc.Name)
	if err != nil {
		return Report{}, fmt.Errorf("query columns of %s: %w", tc.Name, err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return Report{}, err
		}
		present[col] = true
	}
	if err := rows.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Table: tc.Name, Present: len(present) > 0}
	if !report.Present {
		return report, nil
	}
	for _, col := range tc.Columns {
		if !present[col] {
			report.MissingColumns = append(report.MissingColumns, col)
		}
	}
	return report, nil
}
