package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/singh-sj/ecommerce-backend/internal/auth"
	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
	"github.com/singh-sj/ecommerce-backend/internal/utils"
)

type AddCartItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// AddCartItem adds a product to the current user's cart, following the same
// merge rule as order lines: first add captures the product's current price,
// repeat adds atomically increment the quantity without touching the price.
func AddCartItem(c *gin.Context) {
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

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := db.DB.Where("title = ?", req.Product).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product '%s' not found", req.Product)})
		return
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Price:     product.Price,
		Quantity:  req.Quantity,
		AddedAt:   time.Now(),
	}

	err := db.DB.Create(&item).Error
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, item)

	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Merge path: the (cart, product) item already exists.
		if err := db.DB.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
			Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart item"})
			return
		}
		if err := db.DB.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart item"})
			return
		}
		c.JSON(http.StatusOK, item)

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create cart item"})
	}
}

// GetCartItems lists cart items, optionally filtered by product title. The
// filter always serializes as a collection.
func GetCartItems(c *gin.Context) {
	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "product")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key == "product" {
		var product models.Product
		if err := db.DB.Where("title = ?", value).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product '%s' not found", value)})
			return
		}

		var items []models.CartItem
		if err := db.DB.Where("product_id = ?", product.ID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart items"})
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	var items []models.CartItem
	if err := db.DB.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart items"})
		return
	}
	c.JSON(http.StatusOK, items)
}
