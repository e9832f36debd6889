package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multistore/model"
	"multistore/store"
)

type invKey struct {
	storeID   int64
	productID int64
}

// fakeLedger is an in-memory Ledger whose InTx snapshots state and
// restores it when the unit of work fails, mirroring rollback semantics.
// The embedded interface panics on any method a test does not expect.
type fakeLedger struct {
	store.Ledger

	sales      map[int64]*model.Sale
	saleItems  map[int64][]model.SaleItem
	inventory  map[invKey]int
	prices     map[int64]float64
	nextSaleID int64
	nextItemID int64

	failItemInsert bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		sales:     make(map[int64]*model.Sale),
		saleItems: make(map[int64][]model.SaleItem),
		inventory: make(map[invKey]int),
		prices:    make(map[int64]float64),
	}
}

type fakeState struct {
	sales     map[int64]*model.Sale
	saleItems map[int64][]model.SaleItem
	inventory map[invKey]int
	nextSale  int64
	nextItem  int64
}

func (f *fakeLedger) snapshot() fakeState {
	s := fakeState{
		sales:     make(map[int64]*model.Sale, len(f.sales)),
		saleItems: make(map[int64][]model.SaleItem, len(f.saleItems)),
		inventory: make(map[invKey]int, len(f.inventory)),
		nextSale:  f.nextSaleID,
		nextItem:  f.nextItemID,
	}
	for id, sale := range f.sales {
		clone := *sale
		s.sales[id] = &clone
	}
	for id, items := range f.saleItems {
		s.saleItems[id] = append([]model.SaleItem(nil), items...)
	}
	for k, q := range f.inventory {
		s.inventory[k] = q
	}
	return s
}

func (f *fakeLedger) restore(s fakeState) {
	f.sales = s.sales
	f.saleItems = s.saleItems
	f.inventory = s.inventory
	f.nextSaleID = s.nextSale
	f.nextItemID = s.nextItem
}

func (f *fakeLedger) InTx(_ context.Context, fn func(store.Tx) error) error {
	snap := f.snapshot()
	if err := fn(&fakeTx{l: f}); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeLedger) GetSale(_ context.Context, id int64) (*model.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "sale %d", id)
	}
	clone := *sale
	clone.Items = append([]model.SaleItem(nil), f.saleItems[id]...)
	return &clone, nil
}

type fakeTx struct {
	l *fakeLedger
}

func (t *fakeTx) InsertSale(_ context.Context, s *model.Sale) (int64, error) {
	t.l.nextSaleID++
	clone := *s
	clone.ID = t.l.nextSaleID
	t.l.sales[clone.ID] = &clone
	return clone.ID, nil
}

func (t *fakeTx) InsertSaleItem(_ context.Context, it *model.SaleItem) (int64, error) {
	if t.l.failItemInsert {
		return 0, errors.New("disk I/O error")
	}
	t.l.nextItemID++
	clone := *it
	clone.ID = t.l.nextItemID
	t.l.saleItems[clone.SaleID] = append(t.l.saleItems[clone.SaleID], clone)
	return clone.ID, nil
}

func (t *fakeTx) DeductStock(_ context.Context, storeID, productID int64, qty int) (int, error) {
	k := invKey{storeID, productID}
	if _, ok := t.l.inventory[k]; !ok {
		return 0, errors.Wrapf(store.ErrNotFound, "inventory line store=%d product=%d", storeID, productID)
	}
	t.l.inventory[k] -= qty
	return t.l.inventory[k], nil
}

func (t *fakeTx) RestoreStock(_ context.Context, storeID, productID int64, qty int) error {
	k := invKey{storeID, productID}
	if _, ok := t.l.inventory[k]; !ok {
		return errors.Wrapf(store.ErrNotFound, "inventory line store=%d product=%d", storeID, productID)
	}
	t.l.inventory[k] += qty
	return nil
}

func (t *fakeTx) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	return t.l.GetSale(ctx, id)
}

func (t *fakeTx) SaleItems(_ context.Context, saleID int64) ([]model.SaleItem, error) {
	return append([]model.SaleItem(nil), t.l.saleItems[saleID]...), nil
}

func (t *fakeTx) SetSaleStatus(_ context.Context, id int64, status model.SaleStatus) error {
	sale, ok := t.l.sales[id]
	if !ok {
		return errors.Wrapf(store.ErrNotFound, "sale %d", id)
	}
	sale.Status = status
	return nil
}

func setupSales(t *testing.T, cfg SalesConfig) (*Sales, *fakeLedger) {
	t.Helper()
	ledger := newFakeLedger()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewSales(ledger, log, cfg), ledger
}

func saleOf(qty int, unitPrice float64) CreateSaleInput {
	return CreateSaleInput{
		StoreID: 1,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: qty, UnitPrice: unitPrice, TotalPrice: float64(qty) * unitPrice},
		},
		TotalAmount:   float64(qty) * unitPrice,
		PaymentMethod: model.PaymentCash,
	}
}

func TestCreateSale(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10

	saleID, err := svc.CreateSale(context.Background(), saleOf(3, 5))

	require.NoError(t, err)
	require.NotZero(t, saleID)
	assert.Equal(t, 7, ledger.inventory[invKey{1, 1}])

	sale := ledger.sales[saleID]
	require.NotNil(t, sale)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, 15.0, sale.TotalAmount)
	assert.NotEmpty(t, sale.Reference)
	require.Len(t, ledger.saleItems[saleID], 1)
	assert.Equal(t, 15.0, ledger.saleItems[saleID][0].TotalPrice)
}

func TestCreateSale_EmptyCart(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10

	in := CreateSaleInput{StoreID: 1, Items: nil, TotalAmount: 0, PaymentMethod: model.PaymentCash}
	_, err := svc.CreateSale(context.Background(), in)

	assert.ErrorIs(t, err, ErrEmptySale)
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	assert.Empty(t, ledger.sales)
}

func TestCreateSale_Validation(t *testing.T) {
	svc, _ := setupSales(t, SalesConfig{AllowBackorder: true})
	ctx := context.Background()

	t.Run("non-positive quantity", func(t *testing.T) {
		in := saleOf(3, 5)
		in.Items[0].Quantity = 0
		_, err := svc.CreateSale(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		in := saleOf(3, 5)
		in.PaymentMethod = "barter"
		_, err := svc.CreateSale(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidPayment)
	})

	t.Run("negative total", func(t *testing.T) {
		in := saleOf(3, 5)
		in.TotalAmount = -1
		_, err := svc.CreateSale(ctx, in)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestCreateSale_MissingInventoryLineRollsBack(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10

	in := CreateSaleInput{
		StoreID: 1,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: 5, TotalPrice: 10},
			{ProductID: 99, Quantity: 1, UnitPrice: 3, TotalPrice: 3}, // never stocked
		},
		TotalAmount:   13,
		PaymentMethod: model.PaymentCard,
	}
	_, err := svc.CreateSale(context.Background(), in)

	require.ErrorIs(t, err, store.ErrNotFound)
	// first item's decrement must have been rolled back with the rest
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	assert.Empty(t, ledger.sales)
	assert.Empty(t, ledger.saleItems)
}

func TestCreateSale_WriteFailureRollsBack(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10
	ledger.failItemInsert = true

	_, err := svc.CreateSale(context.Background(), saleOf(3, 5))

	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	assert.Empty(t, ledger.sales)
}

func TestCreateSale_Backorder(t *testing.T) {
	t.Run("allowed drives stock negative", func(t *testing.T) {
		svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
		ledger.inventory[invKey{1, 1}] = 2

		_, err := svc.CreateSale(context.Background(), saleOf(5, 4))

		require.NoError(t, err)
		assert.Equal(t, -3, ledger.inventory[invKey{1, 1}])
	})

	t.Run("disallowed rejects and rolls back", func(t *testing.T) {
		svc, ledger := setupSales(t, SalesConfig{AllowBackorder: false})
		ledger.inventory[invKey{1, 1}] = 2

		_, err := svc.CreateSale(context.Background(), saleOf(5, 4))

		require.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 2, ledger.inventory[invKey{1, 1}])
		assert.Empty(t, ledger.sales)
	})
}

func TestCreateSale_StrictTotals(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true, StrictTotals: true})
	ledger.inventory[invKey{1, 1}] = 10
	ctx := context.Background()

	t.Run("item total mismatch", func(t *testing.T) {
		in := saleOf(3, 5)
		in.Items[0].TotalPrice = 14 // 3*5 != 14
		_, err := svc.CreateSale(ctx, in)
		assert.ErrorIs(t, err, ErrTotalMismatch)
		assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	})

	t.Run("sale total mismatch", func(t *testing.T) {
		in := saleOf(3, 5)
		in.TotalAmount = 16
		_, err := svc.CreateSale(ctx, in)
		assert.ErrorIs(t, err, ErrTotalMismatch)
	})

	t.Run("consistent totals pass", func(t *testing.T) {
		_, err := svc.CreateSale(ctx, saleOf(3, 5))
		assert.NoError(t, err)
	})
}

func TestVoidSale_RestoresInventory(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10

	saleID, err := svc.CreateSale(context.Background(), saleOf(3, 5))
	require.NoError(t, err)
	require.Equal(t, 7, ledger.inventory[invKey{1, 1}])

	err = svc.VoidSale(context.Background(), saleID)

	require.NoError(t, err)
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	assert.Equal(t, model.SaleVoided, ledger.sales[saleID].Status)
}

func TestVoidSale_Terminal(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10

	saleID, err := svc.CreateSale(context.Background(), saleOf(3, 5))
	require.NoError(t, err)
	require.NoError(t, svc.VoidSale(context.Background(), saleID))

	err = svc.VoidSale(context.Background(), saleID)

	assert.ErrorIs(t, err, ErrSaleVoided)
	// second void must not double-credit inventory
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
}

func TestVoidSale_NotFound(t *testing.T) {
	svc, _ := setupSales(t, SalesConfig{AllowBackorder: true})

	err := svc.VoidSale(context.Background(), 404)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaleItemPriceSnapshot(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10
	ledger.prices[1] = 5

	saleID, err := svc.CreateSale(context.Background(), saleOf(3, 5))
	require.NoError(t, err)

	// a later catalog price change must not touch the recorded snapshot
	ledger.prices[1] = 9

	items := ledger.saleItems[saleID]
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].UnitPrice)
	assert.Equal(t, 15.0, items[0].TotalPrice)
}

func TestCreateSale_MultiItemDecrementsEachLine(t *testing.T) {
	svc, ledger := setupSales(t, SalesConfig{AllowBackorder: true})
	ledger.inventory[invKey{1, 1}] = 10
	ledger.inventory[invKey{1, 2}] = 4

	customer := int64(7)
	in := CreateSaleInput{
		StoreID:    1,
		CustomerID: &customer,
		Items: []SaleItemInput{
			{ProductID: 1, Quantity: 2, UnitPrice: 5, TotalPrice: 10},
			{ProductID: 2, Quantity: 4, UnitPrice: 2.5, TotalPrice: 10},
		},
		TotalAmount:   20,
		PaymentMethod: model.PaymentTransfer,
	}
	saleID, err := svc.CreateSale(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 8, ledger.inventory[invKey{1, 1}])
	assert.Equal(t, 0, ledger.inventory[invKey{1, 2}])
	require.Len(t, ledger.saleItems[saleID], 2)
	require.True(t, ledger.sales[saleID].CustomerID.Valid)
	assert.Equal(t, customer, ledger.sales[saleID].CustomerID.Int64)

	// voiding restores both lines exactly
	require.NoError(t, svc.VoidSale(context.Background(), saleID))
	assert.Equal(t, 10, ledger.inventory[invKey{1, 1}])
	assert.Equal(t, 4, ledger.inventory[invKey{1, 2}])
}
