package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/singh-sj/ecommerce-backend/internal/handlers"
	"github.com/singh-sj/ecommerce-backend/internal/models"
)

// Covers the whole cart scenario: open a cart, add a product, add it again
// and observe the quantity merge with the price frozen at first add.
func TestAddCartItemHandler(t *testing.T) {
	router, testDB := setupTestRouter(t)

	shopper := createTestUser(t, testDB, "shopper")
	cartless := createTestUser(t, testDB, "cartless")

	widgetPrice := decimal.NewFromFloat(12.50)
	widget := models.Product{Title: "Widget", Price: widgetPrice}
	testDB.Create(&widget)

	t.Run("Returns 404 before the user has created a cart", func(t *testing.T) {
		reqBody := handlers.AddCartItemRequest{Product: "Widget", Quantity: 1}
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", reqBody, cartless.ID)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	// Open the cart through the API, as a client would.
	recorder := performAuthRequest(router, http.MethodPost, "/api/carts", handlers.CreateCartRequest{Status: "active"}, shopper.ID)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var cart models.Cart
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cart))

	t.Run("First add creates the item at the product's current price", func(t *testing.T) {
		reqBody := handlers.AddCartItemRequest{Product: "Widget", Quantity: 3}
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", reqBody, shopper.ID)

		assert.Equal(t, http.StatusCreated, recorder.Code)

		var item models.CartItem
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &item))
		assert.Equal(t, cart.ID, item.CartID)
		assert.Equal(t, widget.ID, item.ProductID)
		assert.Equal(t, 3, item.Quantity)
		assert.True(t, item.Price.Equal(widgetPrice))
	})

	t.Run("Second add merges quantities and keeps the captured price", func(t *testing.T) {
		testDB.Model(&widget).Update("price", decimal.NewFromFloat(99.99))

		reqBody := handlers.AddCartItemRequest{Product: "Widget", Quantity: 2}
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", reqBody, shopper.ID)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var item models.CartItem
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &item))
		assert.Equal(t, 5, item.Quantity)
		assert.True(t, item.Price.Equal(widgetPrice))

		var count int64
		testDB.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, widget.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Returns 404 for an unknown product", func(t *testing.T) {
		reqBody := handlers.AddCartItemRequest{Product: "Nonexistent", Quantity: 1}
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", reqBody, shopper.ID)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Returns 400 when the quantity is missing", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", map[string]interface{}{"product": "Widget"}, shopper.ID)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		var response map[string]string
		json.Unmarshal(recorder.Body.Bytes(), &response)
		assert.Contains(t, response["error"], "Quantity")
	})

	t.Run("Returns 400 for a non-positive quantity", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodPost, "/api/cart-items", map[string]interface{}{"product": "Widget", "quantity": -2}, shopper.ID)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetCartItemsHandler(t *testing.T) {
	router, testDB := setupTestRouter(t)

	shopper := createTestUser(t, testDB, "shopper")
	widget := models.Product{Title: "Widget", Price: decimal.NewFromFloat(12.50)}
	gizmo := models.Product{Title: "Gizmo", Price: decimal.NewFromFloat(7.25)}
	testDB.Create(&widget)
	testDB.Create(&gizmo)

	cart := models.Cart{CreatedByID: shopper.ID, Status: "active"}
	testDB.Create(&cart)
	testDB.Create(&models.CartItem{CartID: cart.ID, ProductID: widget.ID, Price: widget.Price, Quantity: 2})
	testDB.Create(&models.CartItem{CartID: cart.ID, ProductID: gizmo.ID, Price: gizmo.Price, Quantity: 1})

	t.Run("A product filter always serializes as a collection", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodGet, "/api/cart-items?product=Widget", nil, shopper.ID)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var items []models.CartItem
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
		assert.Len(t, items, 1)
		assert.Equal(t, widget.ID, items[0].ProductID)
	})

	t.Run("Returns 404 when the filtered product does not exist", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodGet, "/api/cart-items?product=Nonexistent", nil, shopper.ID)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Rejects unrecognized query keys", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodGet, "/api/cart-items?cart=1", nil, shopper.ID)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Lists all cart items when no parameters are given", func(t *testing.T) {
		recorder := performAuthRequest(router, http.MethodGet, "/api/cart-items", nil, shopper.ID)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var items []models.CartItem
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
		assert.Len(t, items, 2)
	})
}
