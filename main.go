package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/singh-sj/ecommerce-backend/configs"
	"github.com/singh-sj/ecommerce-backend/internal/auth"
	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/handlers"
)

func main() {

	_ = godotenv.Load()

	cfg := config.LoadServerConfig()

	db.Init()
	auth.Init()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ── session store ──
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions(auth.SessionName, store))

	// ── public endpoints ──
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/auth/login", auth.Login)
	r.GET("/auth/callback", auth.Callback)

	api := r.Group("/api")
	{
		// self-registration requires no identity
		api.POST("/users", handlers.RegisterUser)

		// public catalog reads
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProducts)
		api.GET("/categories", handlers.GetCategories)
		api.GET("/categories/:id", handlers.GetCategories)
		api.GET("/reviews", handlers.GetReviews)
		api.GET("/reviews/:id", handlers.GetReviews)
		api.GET("/stats/average-price", handlers.GetAveragePrice)
	}

	// ── protected API ──
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

	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
