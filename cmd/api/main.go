package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/VastraLabs/vastra_api/internal/cache"
	"github.com/VastraLabs/vastra_api/internal/config"
	"github.com/VastraLabs/vastra_api/internal/database"
	"github.com/VastraLabs/vastra_api/internal/handler"
	"github.com/VastraLabs/vastra_api/internal/middleware"
	"github.com/VastraLabs/vastra_api/internal/repository"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
	"github.com/VastraLabs/vastra_api/internal/worker"
	"github.com/VastraLabs/vastra_api/pkg/razorpay"
)

// main is the application entrypoint for the Vastra storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting vastra api")
	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize checkout cache
	checkoutCache := cache.NewCheckoutCache(redisClient, cfg.Checkout.CouponTTL, cfg.Checkout.GatewayOrderTTL)

	// 4. Initialize payment gateway client
	gateway := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL)

	// 5. Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo)
	productMgmtSvc := service.NewProductManagementService(productRepo, categoryRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo, wishlistRepo)
	couponSvc := service.NewCouponService(couponRepo, cartRepo, checkoutCache)
	walletSvc := service.NewWalletService(walletRepo)
	addressSvc := service.NewAddressService(addressRepo)
	checkoutSvc := service.NewCheckoutService(
		db, orderRepo, cartRepo, productRepo, couponRepo, walletRepo, addressRepo,
		couponSvc, checkoutCache, gateway, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
	)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, walletRepo)

	// 7. Initialize handlers
	loginLimiter := middleware.NewLoginRateLimiter()
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient),
		Catalog:           handler.NewCatalogHandler(productSvc),
		Cart:              handler.NewCartHandler(cartSvc),
		Coupon:            handler.NewCouponHandler(couponSvc, cartSvc),
		Checkout:          handler.NewCheckoutHandler(checkoutSvc),
		Order:             handler.NewOrderHandler(orderSvc),
		Wallet:            handler.NewWalletHandler(walletSvc),
		Address:           handler.NewAddressHandler(addressSvc),
		Auth:              handler.NewAuthHandler(adminAuthSvc, loginLimiter),
		AdminOrder:        handler.NewAdminOrderHandler(orderSvc),
		AdminCoupon:       handler.NewAdminCouponHandler(couponSvc),
		ProductManagement: handler.NewProductManagementHandler(productMgmtSvc),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware()
	adminMw := middleware.NewAdminMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, adminMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewPaymentExpiryWorker(orderRepo, cfg.Worker.PaymentExpiryInterval, cfg.Worker.PaymentExpiryAge).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Catalog           *handler.CatalogHandler
	Cart              *handler.CartHandler
	Coupon            *handler.CouponHandler
	Checkout          *handler.CheckoutHandler
	Order             *handler.OrderHandler
	Wallet            *handler.WalletHandler
	Address           *handler.AddressHandler
	Auth              *handler.AuthHandler
	AdminOrder        *handler.AdminOrderHandler
	AdminCoupon       *handler.AdminCouponHandler
	ProductManagement *handler.ProductManagementHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMw *middleware.AuthMiddleware, adminMw *middleware.AdminMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public catalog
	catalog := router.Group("/v1/catalog")
	{
		catalog.GET("/products", handlers.Catalog.ListProducts)
		catalog.GET("/products/:productId", handlers.Catalog.GetProduct)
		catalog.GET("/categories", handlers.Catalog.ListCategories)
	}

	// Customer routes (JWT)
	user := router.Group("/v1")
	user.Use(authMw.Handle())
	{
		user.GET("/cart", handlers.Cart.GetCart)
		user.POST("/cart/items", handlers.Cart.AddItem)
		user.PUT("/cart/items/:variantId", handlers.Cart.SetQuantity)
		user.DELETE("/cart/items/:variantId", handlers.Cart.RemoveItem)
		user.DELETE("/cart", handlers.Cart.ClearCart)

		user.GET("/wishlist", handlers.Cart.GetWishlist)
		user.POST("/wishlist", handlers.Cart.AddToWishlist)
		user.DELETE("/wishlist/:productId", handlers.Cart.RemoveFromWishlist)

		user.GET("/coupons", handlers.Coupon.ListEligible)
		user.POST("/coupons/apply", handlers.Coupon.Apply)
		user.DELETE("/coupons/apply", handlers.Coupon.Remove)

		user.GET("/addresses", handlers.Address.List)
		user.POST("/addresses", handlers.Address.Create)
		user.PUT("/addresses/:addressId", handlers.Address.Update)
		user.DELETE("/addresses/:addressId", handlers.Address.Delete)

		user.POST("/checkout", handlers.Checkout.PlaceOrder)
		user.POST("/checkout/verify", handlers.Checkout.VerifyPayment)

		user.GET("/orders", handlers.Order.ListOrders)
		user.GET("/orders/:orderId", handlers.Order.GetOrder)
		user.POST("/orders/:orderId/cancel", handlers.Order.CancelOrder)
		user.POST("/orders/:orderId/retry-payment", handlers.Checkout.RetryPayment)
		user.POST("/orders/:orderId/items/:itemId/cancel", handlers.Order.CancelItem)
		user.POST("/orders/:orderId/items/:itemId/return", handlers.Order.RequestReturn)

		user.GET("/wallet", handlers.Wallet.GetWallet)
		user.GET("/wallet/transactions", handlers.Wallet.GetTransactions)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(adminMw.Handle())
	{
		// Catalog management
		admin.GET("/categories", handlers.ProductManagement.ListCategories)
		admin.POST("/categories", handlers.ProductManagement.CreateCategory)
		admin.PUT("/categories/:categoryId", handlers.ProductManagement.UpdateCategory)

		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:productId", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:productId", handlers.ProductManagement.UpdateProduct)
		admin.POST("/products/:productId/variants", handlers.ProductManagement.CreateVariant)
		admin.PUT("/products/:productId/variants/:variantId", handlers.ProductManagement.UpdateVariant)
		admin.POST("/products/:productId/images", handlers.ProductManagement.AddImage)
		admin.DELETE("/products/:productId/images/:imageId", handlers.ProductManagement.DeleteImage)

		// Coupon management
		admin.GET("/coupons", handlers.AdminCoupon.ListCoupons)
		admin.POST("/coupons", handlers.AdminCoupon.CreateCoupon)
		admin.PUT("/coupons/:couponId", handlers.AdminCoupon.UpdateCoupon)
		admin.DELETE("/coupons/:couponId", handlers.AdminCoupon.ArchiveCoupon)

		// Order management
		admin.GET("/orders", handlers.AdminOrder.ListOrders)
		admin.GET("/orders/stats", handlers.AdminOrder.GetStats)
		admin.GET("/orders/:orderId", handlers.AdminOrder.GetOrder)
		admin.PATCH("/orders/:orderId/status", handlers.AdminOrder.UpdateStatus)
		admin.PATCH("/orders/:orderId/items/:itemId/status", handlers.AdminOrder.UpdateItemStatus)
		admin.POST("/orders/:orderId/items/:itemId/return/approve", handlers.AdminOrder.ApproveReturn)
		admin.POST("/orders/:orderId/items/:itemId/return/reject", handlers.AdminOrder.RejectReturn)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
