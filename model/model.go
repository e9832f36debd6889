package model

import (
	"database/sql"
	"time"
)

// Store is a physical shop location. It owns inventory lines and sales.
type Store struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Product is a sellable item. UnitPrice is the current catalog price;
// sale items snapshot the price at sale time and do not follow later edits.
type Product struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description"`
	Category    sql.NullString `db:"category" json:"category"`
	UnitPrice   float64        `db:"unit_price" json:"unit_price"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Customer may optionally be referenced by sales.
type Customer struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Email     sql.NullString `db:"email" json:"email"`
	Phone     sql.NullString `db:"phone" json:"phone"`
	Address   sql.NullString `db:"address" json:"address"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// InventoryLine is the per-store, per-product stock record.
// (store_id, product_id) is unique.
type InventoryLine struct {
	StoreID     int64     `db:"store_id" json:"store_id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MinQuantity int       `db:"min_quantity" json:"min_quantity"`
	MaxQuantity int       `db:"max_quantity" json:"max_quantity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryItem is an inventory line joined with its product, as listed
// on the inventory screen.
type InventoryItem struct {
	InventoryLine
	ProductName string         `db:"product_name" json:"product_name"`
	Description sql.NullString `db:"description" json:"description"`
	Category    sql.NullString `db:"category" json:"category"`
	UnitPrice   float64        `db:"unit_price" json:"unit_price"`
}
