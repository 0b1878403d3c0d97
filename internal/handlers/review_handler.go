package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/singh-sj/ecommerce-backend/internal/auth"
	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
	"github.com/singh-sj/ecommerce-backend/internal/utils"
)

type CreateReviewRequest struct {
	Product  string `json:"product" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// CreateReview records a review by the current user. Multiple reviews per
// (user, product) are allowed.
func CreateReview(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "authentication required"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := db.DB.Where("title = ?", req.Product).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product '%s' not found", req.Product)})
		return
	}

	review := models.Review{
		UserID:    user.ID,
		ProductID: product.ID,
		Rating:    req.Rating,
		Comments:  req.Comments,
	}

	if err := db.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetReviews serves both the collection route and the /:id route. The
// recognized query key 'product' (a product title) filters to a collection:
// zero or one matches still serialize as a list.
func GetReviews(c *gin.Context) {
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
			return
		}

		var review models.Review
		if err := db.DB.First(&review, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Review with id %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, review)
		return
	}

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

		var reviews []models.Review
		if err := db.DB.Where("product_id = ?", product.ID).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
		return
	}

	var reviews []models.Review
	if err := db.DB.Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}
