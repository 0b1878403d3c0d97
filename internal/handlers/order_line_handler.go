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

type AddOrderLineRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type DeleteOrderLineRequest struct {
	Order   uint   `json:"order" binding:"required"`
	Product string `json:"product" binding:"required"`
}

// AddOrderLine adds a product to the current user's order. A first add
// creates the line at the product's current price; adding the same product
// again increments the existing line's quantity and leaves the captured
// price untouched. The increment is a single atomic statement, so two
// concurrent adds of the same product cannot lose an update.
func AddOrderLine(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	order, n, err := orderForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Order hasn't been created by user '%s'", user.Username)})
		return
	}
	if n > 1 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Multiple orders found (data integrity issue)"})
		return
	}

	var req AddOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := db.DB.Where("title = ?", req.Product).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product '%s' not found", req.Product)})
		return
	}

	line := models.OrderLine{
		OrderID:   order.ID,
		ProductID: product.ID,
		Price:     product.Price,
		Quantity:  req.Quantity,
	}

	err = db.DB.Create(&line).Error
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, line)

	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Merge path: the (order, product) line already exists.
		if err := db.DB.Model(&models.OrderLine{}).
			Where("order_id = ? AND product_id = ?", order.ID, product.ID).
			Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order line"})
			return
		}
		if err := db.DB.Where("order_id = ? AND product_id = ?", order.ID, product.ID).First(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order line"})
			return
		}
		c.JSON(http.StatusOK, line)

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order line"})
	}
}

// GetOrderLines lists order lines, optionally filtered by product title.
// The filter always serializes as a collection.
func GetOrderLines(c *gin.Context) {
	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "product")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key == "product" {
		var product models.Product
		if err := db.DB.Where("title = ?", value).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product with title '%s' does not exist", value)})
			return
		}

		var lines []models.OrderLine
		if err := db.DB.Where("product_id = ?", product.ID).Find(&lines).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order lines"})
			return
		}
		c.JSON(http.StatusOK, lines)
		return
	}

	var lines []models.OrderLine
	if err := db.DB.Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order lines"})
		return
	}
	c.JSON(http.StatusOK, lines)
}

// DeleteOrderLine removes the line for the (order, product) pair named in
// the request body. More than one matching row is a data integrity problem
// and is surfaced, never silently resolved.
func DeleteOrderLine(c *gin.Context) {
	var req DeleteOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := db.DB.Where("title = ?", req.Product).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product '%s' not found", req.Product)})
		return
	}

	var lines []models.OrderLine
	if err := db.DB.Where("order_id = ? AND product_id = ?", req.Order, product.ID).Limit(2).Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order line"})
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order line not found"})
		return
	}
	if len(lines) > 1 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Multiple order lines found (data integrity issue)"})
		return
	}

	if err := db.DB.Delete(&lines[0]).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order line"})
		return
	}

	c.Status(http.StatusNoContent)
}
