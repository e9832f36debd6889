package service

import (
	"context"

	"multistore/model"
)

// SalesInterface is the typed operation surface for the sale lifecycle.
// Callers see only these operations and typed failures, never the
// atomicity mechanism.
type SalesInterface interface {
	CreateSale(ctx context.Context, in CreateSaleInput) (int64, error)
	VoidSale(ctx context.Context, saleID int64) error
	GetSale(ctx context.Context, saleID int64) (*model.Sale, error)
	ListSales(ctx context.Context, f model.SaleFilter) ([]model.Sale, error)
}

// CatalogInterface is the typed operation surface for entity CRUD.
type CatalogInterface interface {
	CreateStore(ctx context.Context, in StoreInput) (int64, error)
	GetStore(ctx context.Context, id int64) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.Store, error)
	UpdateStore(ctx context.Context, id int64, in StoreInput) error
	DeleteStore(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, in ProductInput) (int64, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, in CustomerInput) (int64, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in CustomerInput) error
	DeleteCustomer(ctx context.Context, id int64) error

	AddInventory(ctx context.Context, in InventoryInput) error
	UpdateInventory(ctx context.Context, in InventoryInput) error
	StoreInventory(ctx context.Context, storeID int64) ([]model.InventoryItem, error)
	GetInventoryItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error)
	RemoveInventory(ctx context.Context, storeID, productID int64) error
}

var (
	_ SalesInterface   = (*Sales)(nil)
	_ CatalogInterface = (*Catalog)(nil)
)
