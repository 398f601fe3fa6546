// Storefront service: product catalog, bulk CSV import, carts, and
// marketplace search for the consumer-electronics store.
//
// @title Storefront Service API
// @version 1.0
// @description Product catalog and back-office API
// @BasePath /api/v1
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront-service/internal/cart"
	"storefront-service/internal/clients"
	"storefront-service/internal/config"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"
	"storefront-service/internal/observability"
	"storefront-service/internal/repository"
	"storefront-service/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	redisClient := config.InitRedis(cfg)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Warn("Redis unavailable, caching degraded")
	}

	imageStore, err := storage.NewImageStore(context.Background(), cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize image storage")
	}

	var bizhub *clients.BizhubClient
	if cfg.BizhubClientID != "" {
		bizhub = clients.NewBizhubClient(cfg.BizhubBaseURL, cfg.BizhubClientID, cfg.BizhubClientSecret, clients.NewTokenCache(nil))
	}
	var marketplace *clients.MarketplaceClient
	if cfg.MarketplaceBaseURL != "" {
		marketplace = clients.NewMarketplaceClient(cfg.MarketplaceBaseURL, cfg.MarketplaceAPIKey, clients.NewRateCache(time.Hour, nil))
	}

	repo := repository.NewProductsRepository(db, redisClient)
	cartStore := cart.NewStore(redisClient)

	productsHandler := handlers.NewProductsHandler(repo, logger)
	importHandler := handlers.NewImportHandler(repo, logger)
	mediaHandler := handlers.NewMediaHandler(imageStore, logger)
	cartHandler := handlers.NewCartHandler(cartStore, logger)
	searchHandler := handlers.NewSearchHandler(repo, marketplace, logger)
	syncHandler := handlers.NewSyncHandler(repo, bizhub, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(observability.Middleware())

	router.GET("/health", handlers.Health)
	router.GET("/ready", handlers.Readiness(
		handlers.ReadinessCheck{Name: "database", Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		handlers.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	))
	router.GET("/metrics", observability.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Public storefront surface.
		v1.GET("/products", productsHandler.ListProducts)
		v1.GET("/products/:id", productsHandler.GetProduct)
		v1.GET("/categories", productsHandler.ListCategories)
		v1.GET("/search", searchHandler.Search)
		v1.GET("/cart/:sessionId", cartHandler.GetCart)
		v1.POST("/cart/:sessionId/actions", cartHandler.ApplyAction)

		// Back-office surface.
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg.JWTSecret))
		{
			admin.POST("/products", productsHandler.CreateProduct)
			admin.PATCH("/products/:id", productsHandler.UpdateProduct)
			admin.DELETE("/products/:id", productsHandler.DeleteProduct)
			admin.GET("/products/import/template", importHandler.GetTemplate)
			admin.POST("/products/import", importHandler.ImportProducts)
			admin.POST("/products/sync/bizhub", syncHandler.SyncBizhub)
			admin.POST("/products/images/upload", mediaHandler.UploadImage)
			admin.DELETE("/products/images/:filename", mediaHandler.DeleteImage)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting storefront service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}
