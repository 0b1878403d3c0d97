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

type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// RegisterUser creates a new user. Self-registration, no auth required.
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Username and email are both unique; name the one that collided.
			var existing models.User
			if db.DB.Where("username = ?", req.Username).First(&existing).Error == nil {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("User '%s' already exists", req.Username)})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Email '%s' is already registered", req.Email)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers serves both the collection route and the /:id route. Recognized
// query keys, in priority order: username, id, pk. Username is a declared
// unique key, so it resolves to a single user or 404.
func GetUsers(c *gin.Context) {
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var user models.User
		if err := db.DB.First(&user, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User with id %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	key, value, err := utils.PickQueryKey(c.Request.URL.Query(), "username", "id", "pk")
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
		c.JSON(http.StatusOK, user)

	case "id", "pk":
		id, convErr := strconv.ParseUint(value, 10, 64)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		var user models.User
		if err := db.DB.First(&user, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User ID '%d' does not exist", id)})
			return
		}
		c.JSON(http.StatusOK, user)

	default:
		var users []models.User
		if err := db.DB.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// DeleteUser deletes a user by the 'username' query parameter.
func DeleteUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide a 'username' parameter to perform deletion"})
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("User '%s' not found", username)})
		return
	}

	if err := db.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}
