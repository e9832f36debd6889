package store

import (
	"context"
	"errors"

	"multistore/model"
)

// ErrNotFound is returned when a point lookup matches no row, or when an
// update/delete affects no rows.
var ErrNotFound = errors.New("not found")

// Ledger is durable storage for every business entity. All mutations are
// durable once the call (or the enclosing atomic unit) returns without error.
type Ledger interface {
	// Stores
	CreateStore(ctx context.Context, s *model.Store) (int64, error)
	GetStore(ctx context.Context, id int64) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
	UpdateStore(ctx context.Context, s *model.Store) error
	DeleteStore(ctx context.Context, id int64) error

	// Products
	CreateProduct(ctx context.Context, p *model.Product) (int64, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// Customers
	CreateCustomer(ctx context.Context, c *model.Customer) (int64, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	// Inventory
	AddInventory(ctx context.Context, line *model.InventoryLine) error
	UpdateInventory(ctx context.Context, line *model.InventoryLine) error
	StoreInventory(ctx context.Context, storeID int64) ([]model.InventoryItem, error)
	GetInventoryItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error)
	RemoveInventory(ctx context.Context, storeID, productID int64) error

	// Sales (reads; writes go through InTx)
	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	ListSales(ctx context.Context, f model.SaleFilter) ([]model.Sale, error)

	// InTx runs fn as a single atomic unit. If fn returns an error the
	// whole unit is rolled back and that error is returned; otherwise the
	// unit commits. No partial writes are observable outside a committed
	// unit.
	InTx(ctx context.Context, fn func(Tx) error) error

	Close() error
}

// Tx is the write surface available inside an atomic unit. It carries
// exactly what the sale lifecycle needs.
type Tx interface {
	InsertSale(ctx context.Context, s *model.Sale) (int64, error)
	InsertSaleItem(ctx context.Context, it *model.SaleItem) (int64, error)

	// DeductStock subtracts qty from the (storeID, productID) inventory
	// line and returns the remaining quantity, which may be negative.
	DeductStock(ctx context.Context, storeID, productID int64, qty int) (int, error)
	// RestoreStock adds qty back to the inventory line.
	RestoreStock(ctx context.Context, storeID, productID int64, qty int) error

	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	SaleItems(ctx context.Context, saleID int64) ([]model.SaleItem, error)
	SetSaleStatus(ctx context.Context, id int64, status model.SaleStatus) error
}
