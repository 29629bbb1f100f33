package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gorent/internal/config"
	"gorent/internal/handlers"
	"gorent/internal/middleware"
	"gorent/internal/repositories/mongodb"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/cache"
	"gorent/pkg/database"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/storage"
	"gorent/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Infof("starting %s %s (%s)", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer db.Close()

	if err := database.EnsureIndexes(db.Database); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	var cacheService mongodb.CacheService
	if err != nil {
		log.Warnf("redis unavailable, running without cache: %v", err)
	} else {
		cacheService = redisCache
		defer redisCache.Close()
	}

	archive, err := newArchiveProvider(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to init document archive: %v", err)
	}

	gateway := newPaymentProvider(cfg.Payment, log)

	vehicleRepo := mongodb.NewVehicleRepository(db.Database, cacheService)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)
	paymentRepo := mongodb.NewPaymentRepository(db.Database)

	pricingService := services.NewPricingService()
	contractService := services.NewContractService(archive, log)
	availabilityService := services.NewAvailabilityService(bookingRepo)
	flowService := services.NewBookingFlowService(vehicleRepo, bookingRepo, pricingService, contractService, log)
	bookingService := services.NewBookingService(bookingRepo, contractService, log)
	paymentService := services.NewPaymentService(paymentRepo, gateway, cfg.Payment.Currency, log)

	flowHandler := handlers.NewBookingFlowHandler(flowService, paymentService, log)
	bookingHandler := handlers.NewBookingHandler(bookingService, log)
	calendarHandler := handlers.NewCalendarHandler(availabilityService, vehicleRepo, userRepo, log)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo, log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("invalid trusted proxies: %v", err)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
		utils.SuccessResponse(c, "ok", gin.H{"version": cfg.App.Version})
	})

	api := router.Group("/api/v1")
	routes.SetupBookingRoutes(api, flowHandler, bookingHandler, cfg.Security.JWTSecret)
	routes.SetupCalendarRoutes(api, calendarHandler, cfg.Security.JWTSecret)
	routes.SetupVehicleRoutes(api, vehicleHandler, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}

func newArchiveProvider(cfg *config.StorageConfig) (storage.Provider, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket)
	case "gcs":
		return storage.NewGCPStorage(cfg.GCP.Bucket, cfg.GCP.CredentialsFile)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath)
	}
}

func newPaymentProvider(cfg *config.PaymentConfig, log *logger.Logger) payment.Provider {
	switch cfg.Provider {
	case "stripe":
		return payment.NewStripeProvider(cfg.Stripe.SecretKey)
	case "razorpay":
		return payment.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	default:
		log.Warn("no payment gateway configured, card handoffs stay local")
		return nil
	}
}
