package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/singh-sj/ecommerce-backend/internal/auth"
	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
	"github.com/singh-sj/ecommerce-backend/internal/utils"
)

type CreateCartRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCart opens a cart for the current user. The store enforces one cart
// per user, so a second create is a conflict.
func CreateCart(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart := models.Cart{
		CreatedByID: user.ID,
		Status:      req.Status,
	}

	if err := db.DB.Create(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Cart already exists for user '%s'", user.Username)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cart"})
		return
	}

	c.JSON(http.StatusCreated, cart)
}

// GetCarts lists carts, optionally filtered by owner username or status.
// Both filters serialize as collections regardless of match count.
func GetCarts(c *gin.Context) {
	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "username", "status")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch key {
	case "username":
		var user models.User
		if err := db.DB.Where("username = ?", value).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User '%s' does not exist", value)})
			return
		}

		var carts []models.Cart
		if err := db.DB.Preload("Items").Where("created_by_id = ?", user.ID).Find(&carts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch carts"})
			return
		}
		c.JSON(http.StatusOK, carts)

	case "status":
		var carts []models.Cart
		if err := db.DB.Preload("Items").Where("status = ?", value).Find(&carts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch carts"})
			return
		}
		c.JSON(http.StatusOK, carts)

	default:
		var carts []models.Cart
		if err := db.DB.Preload("Items").Find(&carts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch carts"})
			return
		}
		c.JSON(http.StatusOK, carts)
	}
}

// DeleteCart removes the current user's cart together with its items.
func DeleteCart(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	var cart models.Cart
	if err := db.DB.Where("created_by_id = ?", user.ID).First(&cart).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User '%s' has no cart", user.Username)})
		return
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cart items"})
		return
	}
	if err := tx.Delete(&cart).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cart"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete cart"})
		return
	}

	c.Status(http.StatusNoContent)
}
