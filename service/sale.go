package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"multistore/model"
	"multistore/store"
)

var (
	ErrEmptySale         = errors.New("sale must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be positive")
	ErrInvalidPayment    = errors.New("unrecognized payment method")
	ErrNegativeAmount    = errors.New("amounts cannot be negative")
	ErrSaleVoided        = errors.New("sale is already voided")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTotalMismatch     = errors.New("total amount does not match items")
)

// SaleItemInput is one line of a checkout request. UnitPrice and TotalPrice
// are recorded as-is; they become the permanent price snapshot for the item.
type SaleItemInput struct {
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// CreateSaleInput is a checkout request.
type CreateSaleInput struct {
	StoreID       int64               `json:"store_id"`
	CustomerID    *int64              `json:"customer_id,omitempty"`
	Items         []SaleItemInput     `json:"items"`
	TotalAmount   float64             `json:"total_amount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// SalesConfig carries the sale policy knobs.
type SalesConfig struct {
	// AllowBackorder permits a sale to drive an inventory line below
	// zero. When false, such a sale is rejected and rolled back.
	AllowBackorder bool
	// StrictTotals rejects a sale whose caller-supplied totals disagree
	// with the item quantities and unit prices.
	StrictTotals bool
}

// Sales enforces the sale lifecycle: atomic creation with inventory
// decrement, and voiding with exact inventory restoration.
type Sales struct {
	ledger store.Ledger
	log    *logrus.Logger
	cfg    SalesConfig
}

func NewSales(ledger store.Ledger, log *logrus.Logger, cfg SalesConfig) *Sales {
	return &Sales{ledger: ledger, log: log, cfg: cfg}
}

// CreateSale records a sale and its items and deducts each item's quantity
// from the store's inventory, all inside one atomic unit. It returns the new
// sale's id.
func (s *Sales) CreateSale(ctx context.Context, in CreateSaleInput) (int64, error) {
	if err := s.validateSale(in); err != nil {
		return 0, err
	}

	sale := &model.Sale{
		Reference:     uuid.NewString(),
		StoreID:       in.StoreID,
		CustomerID:    nullID(in.CustomerID),
		TotalAmount:   in.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		Status:        model.SaleCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	var saleID int64
	err := s.ledger.InTx(ctx, func(tx store.Tx) error {
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		for _, it := range in.Items {
			item := &model.SaleItem{
				SaleID:     id,
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				TotalPrice: it.TotalPrice,
			}
			if _, err := tx.InsertSaleItem(ctx, item); err != nil {
				return err
			}
			remaining, err := tx.DeductStock(ctx, in.StoreID, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if remaining < 0 {
				if !s.cfg.AllowBackorder {
					return errors.Wrapf(ErrInsufficientStock, "product %d", it.ProductID)
				}
				s.log.WithFields(logrus.Fields{
					"store_id":   in.StoreID,
					"product_id": it.ProductID,
					"quantity":   remaining,
				}).Warn("inventory went negative (backorder)")
			}
		}
		saleID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
			return 0, err
		}
		return 0, errors.Wrap(err, "sale creation failed")
	}

	s.log.WithFields(logrus.Fields{
		"sale_id":  saleID,
		"store_id": in.StoreID,
		"items":    len(in.Items),
		"total":    in.TotalAmount,
	}).Info("sale created")
	return saleID, nil
}

// VoidSale marks a completed sale as voided and restores exactly the
// quantities it consumed, inside one atomic unit. Voided is terminal:
// voiding twice fails with ErrSaleVoided and leaves inventory untouched.
func (s *Sales) VoidSale(ctx context.Context, saleID int64) error {
	err := s.ledger.InTx(ctx, func(tx store.Tx) error {
		sale, err := tx.GetSale(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Status == model.SaleVoided {
			return errors.Wrapf(ErrSaleVoided, "sale %d", saleID)
		}
		items, err := tx.SaleItems(ctx, saleID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.RestoreStock(ctx, sale.StoreID, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return tx.SetSaleStatus(ctx, saleID, model.SaleVoided)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrSaleVoided) {
			return err
		}
		return errors.Wrap(err, "sale void failed")
	}

	s.log.WithField("sale_id", saleID).Info("sale voided")
	return nil
}

// GetSale returns a sale with its items.
func (s *Sales) GetSale(ctx context.Context, saleID int64) (*model.Sale, error) {
	return s.ledger.GetSale(ctx, saleID)
}

// ListSales returns sales matching the filter, newest first.
func (s *Sales) ListSales(ctx context.Context, f model.SaleFilter) ([]model.Sale, error) {
	return s.ledger.ListSales(ctx, f)
}

func (s *Sales) validateSale(in CreateSaleInput) error {
	if len(in.Items) == 0 {
		return ErrEmptySale
	}
	if !in.PaymentMethod.Valid() {
		return errors.Wrapf(ErrInvalidPayment, "%q", in.PaymentMethod)
	}
	if in.TotalAmount < 0 {
		return ErrNegativeAmount
	}
	var sum float64
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return errors.Wrapf(ErrInvalidQuantity, "product %d", it.ProductID)
		}
		if it.UnitPrice < 0 || it.TotalPrice < 0 {
			return errors.Wrapf(ErrNegativeAmount, "product %d", it.ProductID)
		}
		if s.cfg.StrictTotals && !moneyEqual(it.TotalPrice, float64(it.Quantity)*it.UnitPrice) {
			return errors.Wrapf(ErrTotalMismatch, "product %d", it.ProductID)
		}
		sum += it.TotalPrice
	}
	if s.cfg.StrictTotals && !moneyEqual(sum, in.TotalAmount) {
		return errors.Wrapf(ErrTotalMismatch, "want %.2f, got %.2f", sum, in.TotalAmount)
	}
	return nil
}

// moneyEqual compares amounts to within half a cent.
func moneyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
