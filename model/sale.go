package model

import (
	"database/sql"
	"time"
)

// PaymentMethod enumerates how a sale was paid for.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// SaleStatus is the sale lifecycle state. The only transition is
// completed -> voided; voided is terminal.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
)

// Sale is a completed checkout against a store. Sales are created together
// with their items and are never edited; the only mutation is voiding.
type Sale struct {
	ID            int64          `db:"id" json:"id"`
	Reference     string         `db:"reference" json:"reference"`
	StoreID       int64          `db:"store_id" json:"store_id"`
	CustomerID    sql.NullInt64  `db:"customer_id" json:"customer_id"`
	CustomerName  sql.NullString `db:"customer_name" json:"customer_name"`
	TotalAmount   float64        `db:"total_amount" json:"total_amount"`
	PaymentMethod PaymentMethod  `db:"payment_method" json:"payment_method"`
	Status        SaleStatus     `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	Items         []SaleItem     `db:"-" json:"items,omitempty"`
}

// SaleItem is one line of a sale. UnitPrice and TotalPrice are snapshots
// taken at sale time.
type SaleItem struct {
	ID         int64   `db:"id" json:"id"`
	SaleID     int64   `db:"sale_id" json:"sale_id"`
	ProductID  int64   `db:"product_id" json:"product_id"`
	Quantity   int     `db:"quantity" json:"quantity"`
	UnitPrice  float64 `db:"unit_price" json:"unit_price"`
	TotalPrice float64 `db:"total_price" json:"total_price"`
}

// SaleFilter narrows sale listings. Zero values mean "no filter";
// dates are compared on the day of the sale.
type SaleFilter struct {
	StoreID   int64
	StartDate time.Time
	EndDate   time.Time
}
