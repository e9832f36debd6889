package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"multistore/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// compile-time interface check
var _ Ledger = (*SQLite)(nil)

// SQLite is a Ledger backed by a local SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite wraps an existing database handle. Used by Open and by tests
// that inject a mocked handle.
func NewSQLite(db *sqlx.DB) *SQLite {
	return &SQLite{db: db}
}

// Open opens (creating if necessary) the database file at path and applies
// pending migrations.
func Open(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// between concurrent atomic units.
	db.SetMaxOpenConns(1)

	s := NewSQLite(db)
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}
	driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return errors.Wrap(err, "migrator")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a transaction; any error from fn rolls the whole
// unit back.
func (s *SQLite) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(&sqliteTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

// sqliteTx implements Tx over an open transaction.
type sqliteTx struct {
	tx *sqlx.Tx
}

func (t *sqliteTx) InsertSale(ctx context.Context, sale *model.Sale) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO sales (reference, store_id, customer_id, total_amount, payment_method, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.Reference, sale.StoreID, sale.CustomerID, sale.TotalAmount,
		string(sale.PaymentMethod), string(sale.Status), sale.CreatedAt,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert sale")
	}
	return res.LastInsertId()
}

func (t *sqliteTx) InsertSaleItem(ctx context.Context, it *model.SaleItem) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?)`,
		it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert sale item")
	}
	return res.LastInsertId()
}

func (t *sqliteTx) DeductStock(ctx context.Context, storeID, productID int64, qty int) (int, error) {
	return t.adjustStock(ctx, storeID, productID, -qty)
}

func (t *sqliteTx) RestoreStock(ctx context.Context, storeID, productID int64, qty int) error {
	_, err := t.adjustStock(ctx, storeID, productID, qty)
	return err
}

func (t *sqliteTx) adjustStock(ctx context.Context, storeID, productID int64, delta int) (int, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE inventory SET quantity = quantity + ?, updated_at = ?
		WHERE store_id = ? AND product_id = ?`,
		delta, time.Now().UTC(), storeID, productID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "adjust stock")
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, errors.Wrapf(ErrNotFound, "inventory line store=%d product=%d", storeID, productID)
	}
	var remaining int
	err = t.tx.GetContext(ctx, &remaining,
		`SELECT quantity FROM inventory WHERE store_id = ? AND product_id = ?`,
		storeID, productID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "read remaining stock")
	}
	return remaining, nil
}

func (t *sqliteTx) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	var sale model.Sale
	err := t.tx.GetContext(ctx, &sale, `
		SELECT id, reference, store_id, customer_id, NULL AS customer_name,
		       total_amount, payment_method, status, created_at
		FROM sales WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "sale %d", id)
		}
		return nil, errors.Wrap(err, "get sale")
	}
	return &sale, nil
}

func (t *sqliteTx) SaleItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := t.tx.SelectContext(ctx, &items, `
		SELECT id, sale_id, product_id, quantity, unit_price, total_price
		FROM sale_items WHERE sale_id = ? ORDER BY id`, saleID)
	if err != nil {
		return nil, errors.Wrap(err, "list sale items")
	}
	return items, nil
}

func (t *sqliteTx) SetSaleStatus(ctx context.Context, id int64, status model.SaleStatus) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE sales SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return errors.Wrap(err, "set sale status")
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return errors.Wrapf(ErrNotFound, "sale %d", id)
	}
	return nil
}
