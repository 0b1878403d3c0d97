package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
	"github.com/singh-sj/ecommerce-backend/internal/utils"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	ParentID    *uint  `json:"parent_category"`
}

func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A missing parent degrades to a top-level category rather than failing.
	var parentID *uint
	if req.ParentID != nil {
		var parent models.Category
		if err := db.DB.First(&parent, *req.ParentID).Error; err == nil {
			parentID = req.ParentID
		}
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		ParentID:    parentID,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Category '%s' already exists", req.Name)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}

	if err := db.DB.Preload("Parent").First(&category, category.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve category with parent details"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories serves both the collection route and the /:id route. The
// only recognized query key is the unique 'name'.
func GetCategories(c *gin.Context) {
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}

		var category models.Category
		if err := db.DB.Preload("Parent").First(&category, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category with id %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, category)
		return
	}

	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "name")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key == "name" {
		var category models.Category
		if err := db.DB.Preload("Parent").Where("name = ?", value).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category with name '%s' not found", value)})
			return
		}
		c.JSON(http.StatusOK, category)
		return
	}

	var categories []models.Category
	if err := db.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// DeleteCategory deletes by the path id or the 'name' query parameter.
func DeleteCategory(c *gin.Context) {
	var category models.Category

	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		if err := db.DB.First(&category, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category with id %d not found", id)})
			return
		}
	} else if name := c.Query("name"); name != "" {
		if err := db.DB.Where("name = ?", name).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category with name '%s' not found", name)})
			return
		}
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide 'name' as key with a value (Category name) to remove the item"})
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}

	c.Status(http.StatusNoContent)
}
