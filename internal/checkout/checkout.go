// Package checkout implements order placement. An order is created in a
// single database transaction: products, sales and stock are read fresh
// inside it, every cart line's stock is reserved with a conditional
// decrement, prices are recomputed server-side, and the order document
// is inserted. Any failure aborts the transaction and nothing survives.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Houssam-Chakir/motoshop-backend/internal/clock"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/pricing"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMissingStock      = errors.New("product has no stock record")
)

type ProductReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type SaleReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Sale, error)
}

type StockReserver interface {
	Reserve(ctx context.Context, stockID primitive.ObjectID, size string, quantity int) (bool, error)
}

type OrderWriter interface {
	Create(ctx context.Context, order *domain.Order) error
}

type LineInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderInput struct {
	UserID              string                     `json:"user_id" binding:"required"`
	Products            []LineInput                `json:"products" binding:"required,min=1,dive"`
	DeliveryFee         float64                    `json:"delivery_fee" binding:"gte=0"`
	OrderTotalPrice     float64                    `json:"order_total_price"`
	PaymentMethod       domain.PaymentMethod       `json:"payment_method" binding:"required"`
	DeliveryInformation domain.DeliveryInformation `json:"delivery_information" binding:"required"`
	Notes               string                     `json:"notes"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// FailureCode classifies a failed attempt so callers can branch without
// inspecting message text.
type FailureCode string

const (
	CodeValidation  FailureCode = "validation"
	CodeOutOfStock  FailureCode = "out_of_stock"
	CodeUnavailable FailureCode = "unavailable"
	CodeServerError FailureCode = "server_error"
)

// Result is the tagged outcome of an order attempt. Callers branch on
// Status and Code instead of catching errors.
type Result struct {
	Status  string        `json:"status"`
	Order   *domain.Order `json:"order,omitempty"`
	Code    FailureCode   `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}

func failed(code FailureCode, message string) Result {
	return Result{Status: StatusFailed, Code: code, Message: message}
}

type Service struct {
	txn      repository.TxnRunner
	products ProductReader
	sales    SaleReader
	stock    StockReserver
	orders   OrderWriter
	clk      clock.Clock
}

func NewService(txn repository.TxnRunner, products ProductReader, sales SaleReader, stock StockReserver, orders OrderWriter, clk clock.Clock) *Service {
	return &Service{
		txn:      txn,
		products: products,
		sales:    sales,
		stock:    stock,
		orders:   orders,
		clk:      clk,
	}
}

// PlaceOrder runs one order-creation attempt. Client-supplied prices are
// ignored: unit and line prices come from the Product+Sale state read
// inside the transaction, so price and availability are consistent for
// the duration of this order.
func (s *Service) PlaceOrder(ctx context.Context, input CreateOrderInput) Result {
	if msg := validate(input); msg != "" {
		return failed(CodeValidation, msg)
	}

	var order *domain.Order
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		built, err := s.buildOrder(ctx, input)
		if err != nil {
			return err
		}
		if err := s.orders.Create(ctx, built); err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		log.Printf("Order attempt for user %s aborted: %v", input.UserID, err)
		code, msg := failureFor(err)
		return failed(code, msg)
	}

	log.Printf("Order %s created for user %s, total %.2f", order.TrackingNumber, order.UserID, order.OrderTotalPrice)
	return Result{Status: StatusSuccess, Order: order}
}

// buildOrder performs the priced/reserved phases. It must run inside the
// transaction passed down through ctx. Duplicate product+size lines are
// reserved independently, in submitted order; a failure on a later line
// rolls the earlier reservations back with the transaction.
func (s *Service) buildOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	now := s.clk.Now()
	items := make([]domain.OrderItem, 0, len(input.Products))
	sum := decimal.Zero

	for _, line := range input.Products {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, err)
		}

		var sale *domain.Sale
		if product.SaleID != nil {
			sale, err = s.sales.GetByID(ctx, *product.SaleID)
			if err != nil {
				if !errors.Is(err, repository.ErrSaleNotFound) {
					return nil, fmt.Errorf("sale for product %s: %w", product.ID.Hex(), err)
				}
				// dangling sale link: sell at retail
				sale = nil
			}
		}
		if sale != nil && !sale.Covers(product.ID, product.CategoryID) {
			// the sale's scoping lists exclude this product
			sale = nil
		}

		if product.StockID.IsZero() {
			return nil, fmt.Errorf("%w: %s", ErrMissingStock, product.ID.Hex())
		}
		ok, err := s.stock.Reserve(ctx, product.StockID, line.Size, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("reserving %s size %s: %w", product.ID.Hex(), line.Size, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s size %s x%d", ErrInsufficientStock, product.Name, line.Size, line.Quantity)
		}

		unitPrice := pricing.EffectivePrice(product.RetailPrice, sale, now)
		lineTotal := pricing.LineTotal(product.RetailPrice, sale, line.Quantity, now)

		items = append(items, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Slug:       product.Slug,
			Size:       line.Size,
			Quantity:   line.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
		})
		sum = sum.Add(decimal.NewFromFloat(lineTotal))
	}

	total, _ := sum.Add(decimal.NewFromFloat(input.DeliveryFee)).Round(2).Float64()
	if totalMismatch(input.OrderTotalPrice, total) {
		// trust-but-verify: the server total is persisted regardless
		log.Printf("Client total %.2f does not match server total %.2f for user %s", input.OrderTotalPrice, total, input.UserID)
	}

	return &domain.Order{
		UserID:              input.UserID,
		Products:            items,
		DeliveryFee:         input.DeliveryFee,
		OrderTotalPrice:     total,
		PaymentMethod:       input.PaymentMethod,
		PaymentStatus:       domain.PaymentStatusFor(input.PaymentMethod),
		DeliveryStatus:      domain.DeliveryProcessing,
		TrackingNumber:      domain.NewTrackingNumber(),
		DeliveryInformation: input.DeliveryInformation,
		Notes:               input.Notes,
	}, nil
}

// totalMismatch reports whether the client-claimed total disagrees with
// the server total by half a cent or more. A claimed total of exactly 0
// means the client did not supply one; rounding noise from client-side
// float formatting stays under the tolerance.
func totalMismatch(claimed, server float64) bool {
	if claimed == 0 {
		return false
	}
	return math.Abs(claimed-server) >= 0.005
}

// validate rejects malformed input before any side effect.
func validate(input CreateOrderInput) string {
	if input.UserID == "" {
		return "missing user id"
	}
	if len(input.Products) == 0 {
		return "order has no items"
	}
	for _, line := range input.Products {
		if line.ProductID == "" || line.Size == "" || line.Quantity <= 0 {
			return "invalid order line"
		}
	}
	switch input.PaymentMethod {
	case domain.PaymentCMI, domain.PaymentDelivery, domain.PaymentPickup:
	default:
		return "unsupported payment method"
	}
	if input.DeliveryFee < 0 {
		return "invalid delivery fee"
	}
	d := input.DeliveryInformation
	if d.FullName == "" || d.PhoneNumber == "" || d.City == "" || d.Address == "" {
		return "incomplete delivery information"
	}
	return ""
}

// failureFor translates internal failures into a code plus a
// user-facing message without leaking internals.
func failureFor(err error) (FailureCode, string) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return CodeOutOfStock, "One or more items in your order are out of stock"
	case errors.Is(err, repository.ErrProductNotFound):
		return CodeUnavailable, "One or more products in your order are no longer available"
	case errors.Is(err, ErrMissingStock), errors.Is(err, repository.ErrStockNotFound):
		return CodeUnavailable, "One or more products in your order are no longer available"
	default:
		return CodeServerError, "Could not place the order, please try again"
	}
}
