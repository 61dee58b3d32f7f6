package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Houssam-Chakir/motoshop-backend/internal/clock"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type fakeProducts struct {
	byID map[string]*domain.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

type fakeSales struct {
	byID map[primitive.ObjectID]*domain.Sale
}

func (f *fakeSales) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Sale, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, repository.ErrSaleNotFound
}

type fakeStock struct {
	levels       map[primitive.ObjectID]map[string]int
	reserveCalls int
}

func (f *fakeStock) Reserve(_ context.Context, stockID primitive.ObjectID, size string, quantity int) (bool, error) {
	f.reserveCalls++
	sizes, ok := f.levels[stockID]
	if !ok {
		return false, nil
	}
	if sizes[size] < quantity {
		return false, nil
	}
	sizes[size] -= quantity
	return true, nil
}

func (f *fakeStock) clone() map[primitive.ObjectID]map[string]int {
	out := make(map[primitive.ObjectID]map[string]int, len(f.levels))
	for id, sizes := range f.levels {
		copied := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			copied[size] = qty
		}
		out[id] = copied
	}
	return out
}

type fakeOrders struct {
	created  []*domain.Order
	failWith error
}

func (f *fakeOrders) Create(_ context.Context, order *domain.Order) error {
	if f.failWith != nil {
		return f.failWith
	}
	order.ID = primitive.NewObjectID()
	f.created = append(f.created, order)
	return nil
}

// fakeTxn mimics transaction rollback by snapshotting the fake stores
// before fn and restoring them when fn fails.
type fakeTxn struct {
	stock  *fakeStock
	orders *fakeOrders
}

func (f *fakeTxn) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	stockSnapshot := f.stock.clone()
	ordersSnapshot := len(f.orders.created)
	if err := fn(ctx); err != nil {
		f.stock.levels = stockSnapshot
		f.orders.created = f.orders.created[:ordersSnapshot]
		return err
	}
	return nil
}

type fixture struct {
	svc    *Service
	clk    *clock.FakeClock
	stock  *fakeStock
	orders *fakeOrders

	sale   *domain.Sale
	helmet *domain.Product // retail 100, 20% sale, stock M:2 L:0
	gloves *domain.Product // retail 19.99, no sale, stock M:5
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	sale := &domain.Sale{
		ID:            primitive.NewObjectID(),
		Name:          "summer sale",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		IsActive:      true,
		StartDate:     clk.Now().Add(-24 * time.Hour),
		EndDate:       clk.Now().Add(24 * time.Hour),
	}

	helmet := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        "Touring Helmet",
		Slug:        "touring-helmet",
		RetailPrice: 100,
		SaleID:      &sale.ID,
		StockID:     primitive.NewObjectID(),
	}
	gloves := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        "Leather Gloves",
		Slug:        "leather-gloves",
		RetailPrice: 19.99,
		StockID:     primitive.NewObjectID(),
	}

	stock := &fakeStock{levels: map[primitive.ObjectID]map[string]int{
		helmet.StockID: {"M": 2, "L": 0},
		gloves.StockID: {"M": 5},
	}}
	orders := &fakeOrders{}

	svc := NewService(
		&fakeTxn{stock: stock, orders: orders},
		&fakeProducts{byID: map[string]*domain.Product{
			helmet.ID.Hex(): helmet,
			gloves.ID.Hex(): gloves,
		}},
		&fakeSales{byID: map[primitive.ObjectID]*domain.Sale{sale.ID: sale}},
		stock,
		orders,
		clk,
	)

	return &fixture{svc: svc, clk: clk, stock: stock, orders: orders, sale: sale, helmet: helmet, gloves: gloves}
}

func deliveryInfo() domain.DeliveryInformation {
	return domain.DeliveryInformation{
		FullName:    "Yassine Alaoui",
		PhoneNumber: "0600000000",
		City:        "Casablanca",
		Address:     "12 Rue des Motards",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID: "user-1",
		Products: []LineInput{
			{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1},
			{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 3},
		},
		DeliveryFee:         10,
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	require.NotNil(t, res.Order)

	// 80.00 + 59.97 + 10 delivery
	assert.Equal(t, 149.97, res.Order.OrderTotalPrice)
	assert.Equal(t, 80.0, res.Order.Products[0].UnitPrice)
	assert.Equal(t, 80.0, res.Order.Products[0].TotalPrice)
	assert.Equal(t, 19.99, res.Order.Products[1].UnitPrice)
	assert.Equal(t, 59.97, res.Order.Products[1].TotalPrice)

	assert.Equal(t, domain.PaymentPending, res.Order.PaymentStatus)
	assert.Equal(t, domain.DeliveryProcessing, res.Order.DeliveryStatus)
	assert.True(t, strings.HasPrefix(res.Order.TrackingNumber, "MTS-"))

	assert.Equal(t, 1, f.stock.levels[f.helmet.StockID]["M"])
	assert.Equal(t, 2, f.stock.levels[f.gloves.StockID]["M"])
	assert.Len(t, f.orders.created, 1)
}

func TestPlaceOrder_CMIIsPaidUpFront(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 1}},
		PaymentMethod:       domain.PaymentCMI,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, domain.PaymentPaid, res.Order.PaymentStatus)
}

func TestPlaceOrder_InsufficientStockAbortsWholeOrder(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID: "user-1",
		Products: []LineInput{
			{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 2}, // reservable
			{ProductID: f.helmet.ID.Hex(), Size: "L", Quantity: 1}, // L is exhausted
		},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, CodeOutOfStock, res.Code)
	assert.Contains(t, res.Message, "out of stock")

	// the gloves reservation must not survive the abort
	assert.Equal(t, 5, f.stock.levels[f.gloves.StockID]["M"])
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_MissingProductAborts(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID: "user-1",
		Products: []LineInput{
			{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 1},
			{ProductID: primitive.NewObjectID().Hex(), Size: "M", Quantity: 1},
		},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, CodeUnavailable, res.Code)
	assert.Contains(t, res.Message, "no longer available")
	assert.Equal(t, 5, f.stock.levels[f.gloves.StockID]["M"])
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_DuplicateLinesReserveIndependently(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID: "user-1",
		Products: []LineInput{
			{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1},
			{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1},
		},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 0, f.stock.levels[f.helmet.StockID]["M"])
	assert.Len(t, res.Order.Products, 2)
}

func TestPlaceOrder_DuplicateLineFailureRollsBackEarlierReservation(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID: "user-1",
		Products: []LineInput{
			{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 2},
			{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1},
		},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 2, f.stock.levels[f.helmet.StockID]["M"])
	assert.Empty(t, f.orders.created)
}

func TestPlaceOrder_RacingOrdersForLastUnits(t *testing.T) {
	f := newFixture(t)

	order := func() Result {
		return f.svc.PlaceOrder(context.Background(), CreateOrderInput{
			UserID:              "user-1",
			Products:            []LineInput{{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 2}},
			PaymentMethod:       domain.PaymentDelivery,
			DeliveryInformation: deliveryInfo(),
		})
	}

	first := order()
	second := order()

	require.Equal(t, StatusSuccess, first.Status, first.Message)
	require.Equal(t, StatusFailed, second.Status)
	assert.Equal(t, 0, f.stock.levels[f.helmet.StockID]["M"])
	assert.Len(t, f.orders.created, 1)
}

func TestPlaceOrder_ClientTotalNeverTrusted(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 1}},
		OrderTotalPrice:     1.00, // tampered
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 19.99, res.Order.OrderTotalPrice)
}

func TestPlaceOrder_ExpiredSaleChargesRetail(t *testing.T) {
	f := newFixture(t)
	f.clk.Advance(48 * time.Hour)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1}},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 100.0, res.Order.Products[0].UnitPrice)
}

func TestPlaceOrder_ValidationRunsBeforeSideEffects(t *testing.T) {
	f := newFixture(t)

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 1}},
		PaymentMethod:       "paypal",
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, CodeValidation, res.Code)
	assert.Equal(t, "unsupported payment method", res.Message)
	assert.Zero(t, f.stock.reserveCalls)
}

func TestPlaceOrder_OrderWriteFailureRollsBackReservations(t *testing.T) {
	f := newFixture(t)
	f.orders.failWith = errors.New("write conflict")

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.gloves.ID.Hex(), Size: "M", Quantity: 2}},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, CodeServerError, res.Code)
	assert.Equal(t, "Could not place the order, please try again", res.Message)
	assert.Equal(t, 5, f.stock.levels[f.gloves.StockID]["M"])
}

func TestPlaceOrder_ScopedSaleExcludingProductChargesRetail(t *testing.T) {
	f := newFixture(t)
	f.sale.ApplicableProducts = []primitive.ObjectID{f.gloves.ID}

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1}},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 100.0, res.Order.Products[0].UnitPrice)
	assert.Equal(t, 100.0, res.Order.OrderTotalPrice)
}

func TestPlaceOrder_ScopedSaleCoveringCategoryDiscounts(t *testing.T) {
	f := newFixture(t)
	f.helmet.CategoryID = primitive.NewObjectID()
	f.sale.ApplicableCategories = []primitive.ObjectID{f.helmet.CategoryID}

	res := f.svc.PlaceOrder(context.Background(), CreateOrderInput{
		UserID:              "user-1",
		Products:            []LineInput{{ProductID: f.helmet.ID.Hex(), Size: "M", Quantity: 1}},
		PaymentMethod:       domain.PaymentDelivery,
		DeliveryInformation: deliveryInfo(),
	})

	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 80.0, res.Order.Products[0].UnitPrice)
}

func TestTotalMismatch(t *testing.T) {
	assert.False(t, totalMismatch(0, 149.97), "zero means the client sent no total")
	assert.False(t, totalMismatch(149.97, 149.97))
	assert.False(t, totalMismatch(149.9700001, 149.97), "float formatting noise is tolerated")
	assert.True(t, totalMismatch(149.96, 149.97), "a full cent off is a mismatch")
	assert.True(t, totalMismatch(1.00, 149.97))
}
