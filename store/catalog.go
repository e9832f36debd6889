package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"multistore/model"
)

func now() time.Time {
	return time.Now().UTC()
}

// ==================== Stores ====================

func (s *SQLite) CreateStore(ctx context.Context, m *model.Store) (int64, error) {
	t := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stores (name, type, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Type, m.Location, t, t,
	)
	if err != nil {
		return 0, errors.Wrap(err, "create store")
	}
	return res.LastInsertId()
}

func (s *SQLite) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	var m model.Store
	err := s.db.GetContext(ctx, &m,
		`SELECT id, name, type, location, created_at, updated_at FROM stores WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "store %d", id)
		}
		return nil, errors.Wrap(err, "get store")
	}
	return &m, nil
}

func (s *SQLite) ListStores(ctx context.Context) ([]model.Store, error) {
	var out []model.Store
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, type, location, created_at, updated_at FROM stores ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list stores")
	}
	return out, nil
}

func (s *SQLite) UpdateStore(ctx context.Context, m *model.Store) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE stores SET name = ?, type = ?, location = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.Type, m.Location, now(), m.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update store")
	}
	return oneRow(res, "store %d", m.ID)
}

func (s *SQLite) DeleteStore(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete store")
	}
	return oneRow(res, "store %d", id)
}

// ==================== Products ====================

func (s *SQLite) CreateProduct(ctx context.Context, m *model.Product) (int64, error) {
	t := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, description, category, unit_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Category, m.UnitPrice, t, t,
	)
	if err != nil {
		return 0, errors.Wrap(err, "create product")
	}
	return res.LastInsertId()
}

func (s *SQLite) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var m model.Product
	err := s.db.GetContext(ctx, &m, `
		SELECT id, name, description, category, unit_price, created_at, updated_at
		FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "product %d", id)
		}
		return nil, errors.Wrap(err, "get product")
	}
	return &m, nil
}

func (s *SQLite) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, description, category, unit_price, created_at, updated_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}

func (s *SQLite) UpdateProduct(ctx context.Context, m *model.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, category = ?, unit_price = ?, updated_at = ?
		WHERE id = ?`,
		m.Name, m.Description, m.Category, m.UnitPrice, now(), m.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	return oneRow(res, "product %d", m.ID)
}

func (s *SQLite) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	return oneRow(res, "product %d", id)
}

// ==================== Customers ====================

func (s *SQLite) CreateCustomer(ctx context.Context, m *model.Customer) (int64, error) {
	t := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Phone, m.Address, t, t,
	)
	if err != nil {
		return 0, errors.Wrap(err, "create customer")
	}
	return res.LastInsertId()
}

func (s *SQLite) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var m model.Customer
	err := s.db.GetContext(ctx, &m, `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM customers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "customer %d", id)
		}
		return nil, errors.Wrap(err, "get customer")
	}
	return &m, nil
}

func (s *SQLite) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM customers ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return out, nil
}

func (s *SQLite) UpdateCustomer(ctx context.Context, m *model.Customer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers SET name = ?, email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?`,
		m.Name, m.Email, m.Phone, m.Address, now(), m.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	return oneRow(res, "customer %d", m.ID)
}

func (s *SQLite) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete customer")
	}
	return oneRow(res, "customer %d", id)
}

// ==================== Inventory ====================

func (s *SQLite) AddInventory(ctx context.Context, line *model.InventoryLine) error {
	t := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (store_id, product_id, quantity, min_quantity, max_quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		line.StoreID, line.ProductID, line.Quantity, line.MinQuantity, line.MaxQuantity, t, t,
	)
	return errors.Wrap(err, "add inventory")
}

func (s *SQLite) UpdateInventory(ctx context.Context, line *model.InventoryLine) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory SET quantity = ?, min_quantity = ?, max_quantity = ?, updated_at = ?
		WHERE store_id = ? AND product_id = ?`,
		line.Quantity, line.MinQuantity, line.MaxQuantity, now(), line.StoreID, line.ProductID,
	)
	if err != nil {
		return errors.Wrap(err, "update inventory")
	}
	return oneRow(res, "inventory line store=%d product=%d", line.StoreID, line.ProductID)
}

func (s *SQLite) StoreInventory(ctx context.Context, storeID int64) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := s.db.SelectContext(ctx, &out, `
		SELECT i.store_id, i.product_id, i.quantity, i.min_quantity, i.max_quantity,
		       i.created_at, i.updated_at,
		       p.name AS product_name, p.description, p.category, p.unit_price
		FROM inventory i
		JOIN products p ON i.product_id = p.id
		WHERE i.store_id = ?
		ORDER BY p.name`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "list inventory")
	}
	return out, nil
}

func (s *SQLite) GetInventoryItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error) {
	var m model.InventoryItem
	err := s.db.GetContext(ctx, &m, `
		SELECT i.store_id, i.product_id, i.quantity, i.min_quantity, i.max_quantity,
		       i.created_at, i.updated_at,
		       p.name AS product_name, p.description, p.category, p.unit_price
		FROM inventory i
		JOIN products p ON i.product_id = p.id
		WHERE i.store_id = ? AND i.product_id = ?`, storeID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "inventory line store=%d product=%d", storeID, productID)
		}
		return nil, errors.Wrap(err, "get inventory line")
	}
	return &m, nil
}

func (s *SQLite) RemoveInventory(ctx context.Context, storeID, productID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory WHERE store_id = ? AND product_id = ?`, storeID, productID)
	if err != nil {
		return errors.Wrap(err, "remove inventory")
	}
	return oneRow(res, "inventory line store=%d product=%d", storeID, productID)
}

// oneRow maps a zero-row result to ErrNotFound.
func oneRow(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return nil
}
