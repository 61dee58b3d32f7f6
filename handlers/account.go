package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
	"github.com/Houssam-Chakir/motoshop-backend/internal/repository"
)

type AccountHandler struct {
	users *repository.MongoUserStore
	carts *repository.MongoCartStore
}

func NewAccountHandler(users *repository.MongoUserStore, carts *repository.MongoCartStore) *AccountHandler {
	return &AccountHandler{users: users, carts: carts}
}

func (h *AccountHandler) GetWishlist(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": user.Wishlist})
}

func (h *AccountHandler) AddToWishlist(c *gin.Context) {
	var input struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.users.AddToWishlist(c.Request.Context(), c.Param("id"), productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist: " + err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) RemoveFromWishlist(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.users.RemoveFromWishlist(c.Request.Context(), c.Param("id"), productID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || isInvalidID(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist: " + err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ReplaceCart overwrites the server-side cart, which is how the client
// syncs a guest cart after login.
func (h *AccountHandler) ReplaceCart(c *gin.Context) {
	var input struct {
		Items []domain.CartItem `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.carts.Replace(c.Request.Context(), c.Param("id"), input.Items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace cart: " + err.Error()})
		return
	}

	cart, err := h.carts.GetByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, cart)
}
