package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
	"github.com/singh-sj/ecommerce-backend/internal/utils"
)

type CreateProductRequest struct {
	Title         string          `json:"title" binding:"required"`
	CategoryID    *uint           `json:"category"`
	Description   string          `json:"description"`
	Tags          string          `json:"tags"`
	Summary       string          `json:"summary"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

func CreateProduct(c *gin.Context) {
	var req CreateProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// An unknown category id is tolerated: the product is simply created
	// without a category.
	var categoryID *uint
	if req.CategoryID != nil {
		var category models.Category
		if err := db.DB.First(&category, *req.CategoryID).Error; err == nil {
			categoryID = req.CategoryID
		}
	}

	product := models.Product{
		Title:         req.Title,
		CategoryID:    categoryID,
		Description:   req.Description,
		Tags:          req.Tags,
		Summary:       req.Summary,
		Price:         req.Price,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Product '%s' already exists", req.Title)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts serves both the collection route and the /:id route. The only
// recognized query key is the unique 'title': a miss is a 404, never a
// fall-through to the full listing.
func GetProducts(c *gin.Context) {
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}

		var product models.Product
		if err := db.DB.Preload("Category").First(&product, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product with id %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, product)
		return
	}

	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "title")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key == "title" {
		var product models.Product
		if err := db.DB.Preload("Category").Where("title = ?", value).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product with title '%s' not found", value)})
			return
		}
		c.JSON(http.StatusOK, product)
		return
	}

	var products []models.Product
	if err := db.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// DeleteProduct deletes by the path id or the 'title' query parameter.
func DeleteProduct(c *gin.Context) {
	var product models.Product

	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		if err := db.DB.First(&product, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product with id %d not found", id)})
			return
		}
	} else if title := c.Query("title"); title != "" {
		if err := db.DB.Where("title = ?", title).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product with title '%s' not found", title)})
			return
		}
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide the product 'id' or 'title' to delete an item"})
		return
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAveragePrice reports the average product price across a category and
// all of its descendants.
func GetAveragePrice(c *gin.Context) {
	categoryIDParam := c.Query("category_id")
	if categoryIDParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return
	}

	var categoryID uint
	if _, err := fmt.Sscan(categoryIDParam, &categoryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
		return
	}

	categoryIDs, err := utils.CollectCategoryIDs(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to walk category tree"})
		return
	}

	var avg float64
	err = db.DB.
		Model(&models.Product{}).
		Where("category_id IN ?", categoryIDs).
		Select("COALESCE(AVG(price), 0)").
		Scan(&avg).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute average price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category_id": categoryID, "average_price": avg})
}
