package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront/internal/api"
	"storefront/internal/config"
	consumer2 "storefront/internal/consumer"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func main() {
	db, err := connectDBEnv(
		getenv("DB_HOST", "127.0.0.1"),
		getenv("DB_PORT", "3306"),
		getenv("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		getenv("DB_NAME", "storefront-db"),
	)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate storefront tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", "localhost:6379"),
	})

	jwtSecret := []byte(getenv("JWT_SECRET", "secret"))
	kafkaWriter := config.NewKafkaWriter(config.OrderTopic)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalogService := service.NewCatalogService(productRepo, service.NewRedisProductCache(rdb))
	cartService := service.NewCartService(cartRepo, service.NewRedisCartCache(rdb))
	sessionService := service.NewSessionService(userRepo, service.NewRedisSessionStore(rdb), cartService, jwtSecret)
	checkoutService := service.NewCheckoutService(
		cartService,
		orderRepo,
		catalogService,
		service.NewKafkaPublisher(kafkaWriter),
		service.NewRedisIdempotencyStore(rdb),
	)
	historyService := service.NewOrderHistoryService(orderRepo)

	userHandler := api.NewUserHandler(sessionService)
	productHandler := api.NewProductHandler(catalogService)
	cartHandler := api.NewCartHandler(cartService)
	orderHandler := api.NewOrderHandler(checkoutService, historyService)

	// consumer
	consumer := consumer2.NewConsumer(catalogService)
	go consumer.StartKafkaConsumer()

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)
	e.GET("/users/:id", userHandler.GetUserByID)
	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/warmup-cache", productHandler.PreWarmupCache)
	e.GET("/products/:id", productHandler.GetProduct)
	e.GET("/products/:id/stock", productHandler.GetProductStock)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "storefront",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Identity-scoped routes
	auth := e.Group("")
	auth.Use(echojwt.JWT(jwtSecret))
	auth.POST("/logout", userHandler.Logout)
	auth.POST("/products", productHandler.CreateProduct)
	auth.GET("/session/validate", userHandler.ValidateSession)
	auth.GET("/cart", cartHandler.GetCart)
	auth.POST("/cart/items", cartHandler.AddItem)
	auth.PUT("/cart/items/:id", cartHandler.UpdateItem)
	auth.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	auth.DELETE("/cart", cartHandler.ClearCart)
	auth.POST("/checkout", orderHandler.Checkout)
	auth.GET("/orders", orderHandler.GetOrders)

	e.Logger.Fatal(e.Start(":" + getenv("PORT", "8080")))
}
