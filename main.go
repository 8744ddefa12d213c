package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshcatch/backend/config"
	"github.com/freshcatch/backend/controllers"
	"github.com/freshcatch/backend/database"
	"github.com/freshcatch/backend/middleware"
	"github.com/freshcatch/backend/pkg/awsx"
	"github.com/freshcatch/backend/pkg/logger"
	"github.com/freshcatch/backend/repository"
	"github.com/freshcatch/backend/routes"
	"github.com/freshcatch/backend/services"
)

func main() {
	cfg := config.Load()

	log := logger.Initialize(cfg.Environment)
	defer log.Sync()

	mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer mongoDB.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		log.Fatal("failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	redisClient := database.ConnectRedis(cfg.RedisURL)
	defer redisClient.Close()

	var events *services.EventPublisher
	if cfg.SNSTopicARN != "" {
		awsCfg, err := awsx.LoadConfig(context.Background())
		if err != nil {
			log.Warn("failed to load aws config, order events disabled", zap.Error(err))
		} else {
			events = services.NewEventPublisher(awsx.NewSNSClient(awsCfg), cfg.SNSTopicARN)
		}
	}

	userRepo := repository.NewUserRepository(mongoDB.DB)
	vendorRepo := repository.NewVendorRepository(mongoDB.DB)
	productRepo := repository.NewProductRepository(mongoDB.DB)
	cartRepo := repository.NewCartRepository(mongoDB.DB)
	orderRepo := repository.NewOrderRepository(mongoDB.DB)
	idempotencyRepo := repository.NewIdempotencyRepository(redisClient)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(userRepo, tokenService)
	userService := services.NewUserService(userRepo)
	vendorService := services.NewVendorService(vendorRepo, productRepo, orderRepo)
	catalogService := services.NewCatalogService(productRepo, vendorRepo)
	cartService := services.NewCartService(cartRepo, productRepo, vendorRepo)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, vendorRepo,
		orderRepo, userRepo, idempotencyRepo, events, cfg.PlatformFeeRate, cfg.IdempotencyTTL)
	orderService := services.NewOrderService(orderRepo, productRepo, events)
	adminService := services.NewAdminService(userRepo, vendorRepo, productRepo, orderRepo)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := controllers.RegisterValidations(); err != nil {
		log.Fatal("failed to register custom validations", zap.Error(err))
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(middleware.NewRateLimiter(20, 40).Middleware())

	routes.Register(router, &routes.Controllers{
		Auth:    controllers.NewAuthController(authService),
		Users:   controllers.NewUserController(userService),
		Catalog: controllers.NewCatalogController(catalogService),
		Cart:    controllers.NewCartController(cartService),
		Orders:  controllers.NewOrderController(checkoutService, orderService, vendorService),
		Vendors: controllers.NewVendorController(vendorService),
		Admin:   controllers.NewAdminController(adminService),
	}, tokenService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
