package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Houssam-Chakir/motoshop-backend/internal/clock"
	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type SaleHandler struct {
	sales *repository.MongoSaleStore
	clk   clock.Clock
}

func NewSaleHandler(sales *repository.MongoSaleStore, clk clock.Clock) *SaleHandler {
	return &SaleHandler{sales: sales, clk: clk}
}

func (h *SaleHandler) ListActiveSales(c *gin.Context) {
	sales, err := h.sales.ListActive(c.Request.Context(), h.clk.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales})
}

func validSale(sale *domain.Sale) string {
	switch sale.DiscountType {
	case domain.DiscountPercentage:
		if sale.DiscountValue > 100 {
			return "percentage discount cannot exceed 100"
		}
	case domain.DiscountFixed:
	default:
		return "unknown discount type"
	}
	if sale.EndDate.Before(sale.StartDate) {
		return "sale window ends before it starts"
	}
	return ""
}

func (h *SaleHandler) CreateSale(c *gin.Context) {
	var input domain.Sale
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if msg := validSale(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.sales.Create(c.Request.Context(), &input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, input)
}

func (h *SaleHandler) UpdateSale(c *gin.Context) {
	var input domain.Sale
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if msg := validSale(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.sales.Update(c.Request.Context(), c.Param("id"), &input); err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, input)
}

func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.sales.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale: " + err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
