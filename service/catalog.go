package service

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"multistore/model"
	"multistore/store"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrNegativePrice = errors.New("price must be >= 0")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type StoreInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	UnitPrice   float64 `json:"unit_price"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type InventoryInput struct {
	StoreID     int64 `json:"store_id"`
	ProductID   int64 `json:"product_id"`
	Quantity    int   `json:"quantity"`
	MinQuantity int   `json:"min_quantity"`
	MaxQuantity int   `json:"max_quantity"`
}

// Catalog is plain CRUD over stores, products, customers and inventory
// lines. It validates input and delegates persistence to the ledger.
type Catalog struct {
	ledger store.Ledger
	log    *logrus.Logger
}

func NewCatalog(ledger store.Ledger, log *logrus.Logger) *Catalog {
	return &Catalog{ledger: ledger, log: log}
}

// ==================== Stores ====================

func (c *Catalog) CreateStore(ctx context.Context, in StoreInput) (int64, error) {
	if in.Name == "" {
		return 0, ErrNameRequired
	}
	return c.ledger.CreateStore(ctx, &model.Store{Name: in.Name, Type: in.Type, Location: in.Location})
}

func (c *Catalog) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	return c.ledger.GetStore(ctx, id)
}

func (c *Catalog) ListStores(ctx context.Context) ([]model.Store, error) {
	return c.ledger.ListStores(ctx)
}

func (c *Catalog) UpdateStore(ctx context.Context, id int64, in StoreInput) error {
	if in.Name == "" {
		return ErrNameRequired
	}
	return c.ledger.UpdateStore(ctx, &model.Store{ID: id, Name: in.Name, Type: in.Type, Location: in.Location})
}

func (c *Catalog) DeleteStore(ctx context.Context, id int64) error {
	return c.ledger.DeleteStore(ctx, id)
}

// ==================== Products ====================

func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	if err := validateProduct(in); err != nil {
		return 0, err
	}
	return c.ledger.CreateProduct(ctx, productModel(0, in))
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return c.ledger.GetProduct(ctx, id)
}

func (c *Catalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	return c.ledger.ListProducts(ctx)
}

func (c *Catalog) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	if err := validateProduct(in); err != nil {
		return err
	}
	return c.ledger.UpdateProduct(ctx, productModel(id, in))
}

func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	return c.ledger.DeleteProduct(ctx, id)
}

func validateProduct(in ProductInput) error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.UnitPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

func productModel(id int64, in ProductInput) *model.Product {
	return &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: nullString(in.Description),
		Category:    nullString(in.Category),
		UnitPrice:   in.UnitPrice,
	}
}

// ==================== Customers ====================

func (c *Catalog) CreateCustomer(ctx context.Context, in CustomerInput) (int64, error) {
	if err := validateCustomer(in); err != nil {
		return 0, err
	}
	return c.ledger.CreateCustomer(ctx, customerModel(0, in))
}

func (c *Catalog) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return c.ledger.GetCustomer(ctx, id)
}

func (c *Catalog) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return c.ledger.ListCustomers(ctx)
}

func (c *Catalog) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) error {
	if err := validateCustomer(in); err != nil {
		return err
	}
	return c.ledger.UpdateCustomer(ctx, customerModel(id, in))
}

func (c *Catalog) DeleteCustomer(ctx context.Context, id int64) error {
	return c.ledger.DeleteCustomer(ctx, id)
}

func validateCustomer(in CustomerInput) error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return errors.Wrapf(ErrInvalidEmail, "%q", in.Email)
	}
	return nil
}

func customerModel(id int64, in CustomerInput) *model.Customer {
	return &model.Customer{
		ID:      id,
		Name:    in.Name,
		Email:   nullString(in.Email),
		Phone:   nullString(in.Phone),
		Address: nullString(in.Address),
	}
}

// ==================== Inventory ====================

func (c *Catalog) AddInventory(ctx context.Context, in InventoryInput) error {
	if in.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return c.ledger.AddInventory(ctx, inventoryLine(in))
}

func (c *Catalog) UpdateInventory(ctx context.Context, in InventoryInput) error {
	return c.ledger.UpdateInventory(ctx, inventoryLine(in))
}

func (c *Catalog) StoreInventory(ctx context.Context, storeID int64) ([]model.InventoryItem, error) {
	return c.ledger.StoreInventory(ctx, storeID)
}

func (c *Catalog) GetInventoryItem(ctx context.Context, storeID, productID int64) (*model.InventoryItem, error) {
	return c.ledger.GetInventoryItem(ctx, storeID, productID)
}

func (c *Catalog) RemoveInventory(ctx context.Context, storeID, productID int64) error {
	return c.ledger.RemoveInventory(ctx, storeID, productID)
}

func inventoryLine(in InventoryInput) *model.InventoryLine {
	return &model.InventoryLine{
		StoreID:     in.StoreID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
