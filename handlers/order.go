package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Houssam-Chakir/motoshop-backend/internal/checkout"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

// CartClearer empties a user's server-side cart after checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

type OrderHandler struct {
	checkout *checkout.Service
	orders   *repository.MongoOrderStore
	carts    CartClearer
}

func NewOrderHandler(checkoutSvc *checkout.Service, orders *repository.MongoOrderStore, carts CartClearer) *OrderHandler {
	return &OrderHandler{checkout: checkoutSvc, orders: orders, carts: carts}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input checkout.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	res := h.checkout.PlaceOrder(c.Request.Context(), input)
	if res.Status != checkout.StatusSuccess {
		status := http.StatusInternalServerError
		switch res.Code {
		case checkout.CodeOutOfStock:
			status = http.StatusConflict
		case checkout.CodeUnavailable, checkout.CodeValidation:
			status = http.StatusBadRequest
		}
		c.JSON(status, res)
		return
	}

	// the order snapshot is authoritative now, the server-side cart is stale
	if err := h.carts.Clear(c.Request.Context(), input.UserID); err != nil {
		log.Printf("Failed to clear cart for user %s after order %s: %v", input.UserID, res.Order.ID.Hex(), err)
	}

	c.JSON(http.StatusCreated, res)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id query parameter"})
		return
	}

	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, errL := strconv.ParseInt(limitStr, 10, 64)
	offset, errO := strconv.ParseInt(offsetStr, 10, 64)
	if errL != nil || errO != nil || limit <= 0 || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	orders, total, err := h.orders.ListByUserID(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
		"pagination": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// UpdateOrderStatus mutates the post-creation status fields only. Price
// fields stay untouched from the moment the order was committed.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var input repository.StatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.PaymentStatus != "" && input.PaymentStatus != domain.PaymentPaid && input.PaymentStatus != domain.PaymentPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status: " + string(input.PaymentStatus)})
		return
	}
	validDelivery := map[domain.DeliveryStatus]bool{
		domain.DeliveryProcessing: true,
		domain.DeliveryShipped:    true,
		domain.DeliveryDelivered:  true,
		domain.DeliveryCancelled:  true,
	}
	if input.DeliveryStatus != "" && !validDelivery[input.DeliveryStatus] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery status: " + string(input.DeliveryStatus)})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, input); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status: " + err.Error()})
		}
		return
	}

	updated, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve updated order: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}
