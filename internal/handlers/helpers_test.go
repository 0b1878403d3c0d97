package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/singh-sj/ecommerce-backend/internal/auth"
	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/handlers"
	"github.com/singh-sj/ecommerce-backend/internal/models"
)

const testSessionSecret = "test-secret-key"

// setupTestRouter swaps in an in-memory SQLite database (named per test so
// no rows leak between tests) and registers the same routes as main.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.Order{},
		&models.OrderLine{},
		&models.Cart{},
		&models.CartItem{},
	)
	if err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}

	originalDB := db.DB
	db.SetTestDB(testDB)
	t.Cleanup(func() {
		db.SetTestDB(originalDB)
	})

	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(testSessionSecret))
	r.Use(sessions.Sessions(auth.SessionName, store))

	api := r.Group("/api")
	{
		api.POST("/users", handlers.RegisterUser)
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProducts)
		api.GET("/categories", handlers.GetCategories)
		api.GET("/categories/:id", handlers.GetCategories)
		api.GET("/reviews", handlers.GetReviews)
		api.GET("/reviews/:id", handlers.GetReviews)
		api.GET("/stats/average-price", handlers.GetAveragePrice)
	}

	priv := api.Group("")
	priv.Use(auth.RequireAuth())
	{
		priv.GET("/users", handlers.GetUsers)
		priv.GET("/users/:id", handlers.GetUsers)
		priv.DELETE("/users", handlers.DeleteUser)

		priv.POST("/products", handlers.CreateProduct)
		priv.DELETE("/products", handlers.DeleteProduct)
		priv.DELETE("/products/:id", handlers.DeleteProduct)

		priv.POST("/categories", handlers.CreateCategory)
		priv.DELETE("/categories", handlers.DeleteCategory)
		priv.DELETE("/categories/:id", handlers.DeleteCategory)

		priv.POST("/reviews", handlers.CreateReview)

		priv.POST("/orders", handlers.CreateOrder)
		priv.GET("/orders", handlers.GetOrders)
		priv.GET("/orders/:id", handlers.GetOrders)
		priv.DELETE("/orders", handlers.DeleteOrder)
		priv.DELETE("/orders/:id", handlers.DeleteOrder)

		priv.POST("/order-lines", handlers.AddOrderLine)
		priv.GET("/order-lines", handlers.GetOrderLines)
		priv.DELETE("/order-lines", handlers.DeleteOrderLine)

		priv.POST("/carts", handlers.CreateCart)
		priv.GET("/carts", handlers.GetCarts)
		priv.DELETE("/carts", handlers.DeleteCart)

		priv.POST("/cart-items", handlers.AddCartItem)
		priv.GET("/cart-items", handlers.GetCartItems)
	}

	return r, testDB
}

func newJSONRequest(method, path string, body interface{}) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// sessionCookie forges a session cookie carrying the given user id, using
// the same store secret as the test router.
func sessionCookie(userID uint) string {
	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	store := cookie.NewStore([]byte(testSessionSecret))
	sessions.Sessions(auth.SessionName, store)(tempC)
	sess := sessions.Default(tempC)
	sess.Set("user_id", userID)
	_ = sess.Save()
	return tempW.Header().Get("Set-Cookie")
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(method, path, body))
	return recorder
}

func performAuthRequest(router *gin.Engine, method, path string, body interface{}, userID uint) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := newJSONRequest(method, path, body)
	req.Header.Set("Cookie", sessionCookie(userID))
	router.ServeHTTP(recorder, req)
	return recorder
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// createTestUser inserts a user directly into the test database.
func createTestUser(t *testing.T, testDB *gorm.DB, username string) models.User {
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Phone:    "+254700000000",
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}
