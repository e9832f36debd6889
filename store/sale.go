package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"multistore/model"
)

// GetSale returns a sale with its items and, when present, the customer name.
func (s *SQLite) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	var sale model.Sale
	err := s.db.GetContext(ctx, &sale, `
		SELECT s.id, s.reference, s.store_id, s.customer_id, c.name AS customer_name,
		       s.total_amount, s.payment_method, s.status, s.created_at
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE s.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "sale %d", id)
		}
		return nil, errors.Wrap(err, "get sale")
	}

	err = s.db.SelectContext(ctx, &sale.Items, `
		SELECT id, sale_id, product_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "list sale items")
	}
	return &sale, nil
}

// ListSales returns sales matching the filter, newest first.
func (s *SQLite) ListSales(ctx context.Context, f model.SaleFilter) ([]model.Sale, error) {
	query := `
		SELECT s.id, s.reference, s.store_id, s.customer_id, c.name AS customer_name,
		       s.total_amount, s.payment_method, s.status, s.created_at
		FROM sales s
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE 1=1`
	args := []interface{}{}

	if f.StoreID != 0 {
		query += ` AND s.store_id = ?`
		args = append(args, f.StoreID)
	}
	if !f.StartDate.IsZero() {
		query += ` AND date(s.created_at) >= date(?)`
		args = append(args, f.StartDate.Format("2006-01-02"))
	}
	if !f.EndDate.IsZero() {
		query += ` AND date(s.created_at) <= date(?)`
		args = append(args, f.EndDate.Format("2006-01-02"))
	}
	query += ` ORDER BY s.created_at DESC`

	var out []model.Sale
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	return out, nil
}
