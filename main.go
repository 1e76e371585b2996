package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/apperrors"
	"github.com/yashrajoria/sneakershop/config"
	"github.com/yashrajoria/sneakershop/controllers"
	"github.com/yashrajoria/sneakershop/database"
	"github.com/yashrajoria/sneakershop/events"
	"github.com/yashrajoria/sneakershop/logger"
	"github.com/yashrajoria/sneakershop/middleware"
	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
	"github.com/yashrajoria/sneakershop/repository"
	"github.com/yashrajoria/sneakershop/routes"
	"github.com/yashrajoria/sneakershop/services"
)

const serviceName = "sneakershop-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}
	ctx := context.Background()

	// --- AWS setup, only when a component needs it ---
	var awsCfg sdkaws.Config
	if cfg.CloudWatchEnabled || cfg.EventBus == config.EventBusSNS || cfg.SessionCartBackend == config.SessionCartDynamoDB {
		awsCfg, err = aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v", err)
		}
	}

	// --- Logging ---
	var cloudWatchWriter io.Writer
	if cfg.CloudWatchEnabled {
		cw, err := aws_pkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchGroup, serviceName)
		if err != nil {
			log.Printf("CloudWatch logs disabled: %v", err)
		} else {
			cloudWatchWriter = cw
		}
	}
	logger.InitializeWithWriter(cfg.Env, cloudWatchWriter)
	defer logger.Log.Sync()
	zlog := logger.Log

	// --- Database ---
	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Anonymous cart store ---
	var sessionStore repository.SessionCartStore
	var redisClient *redis.Client
	switch cfg.SessionCartBackend {
	case config.SessionCartRedis:
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			zlog.Fatal("Redis connection failed", zap.Error(err))
		}
		sessionStore = repository.NewRedisSessionCartStore(redisClient, cfg.SessionCartTTL)
	case config.SessionCartDynamoDB:
		dynamoClient, err := database.NewDynamoClient(ctx, awsCfg, cfg.SessionCartTable)
		if err != nil {
			zlog.Fatal("DynamoDB setup failed", zap.Error(err))
		}
		sessionStore = repository.NewDynamoSessionCartStore(dynamoClient, cfg.SessionCartTable, cfg.SessionCartTTL)
	default:
		sessionStore = repository.NewMemorySessionCartStore(cfg.SessionCartTTL)
	}
	zlog.Info("Session cart store ready", zap.String("backend", cfg.SessionCartBackend))

	// --- Event bus ---
	var publisher events.Publisher = events.NoopPublisher{}
	switch cfg.EventBus {
	case config.EventBusKafka:
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	case config.EventBusSNS:
		publisher = events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.OrderSNSTopicARN)
	}

	// --- CloudWatch metrics ---
	var metrics aws_pkg.MetricsRecorder
	if cfg.CloudWatchEnabled {
		metrics = aws_pkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace)
	}

	// --- Dependency injection ---
	repos := repository.NewGormRepositories(db)
	tx := repository.NewGormTransactor(db)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	authService := services.NewAuthService(repos.Users, tokenService, zlog)
	userService := services.NewUserService(repos.Users, zlog)
	catalogService := services.NewCatalogService(repos.Products, zlog)
	sessionCartService := services.NewSessionCartService(sessionStore, repos.Products, zlog)
	cartService := services.NewCartService(repos.Carts, repos.Variants, zlog)
	cartSyncService := services.NewCartSyncService(tx, sessionStore, metrics, zlog)
	checkoutService := services.NewCheckoutService(repos.Carts, tx, publisher, metrics, zlog)
	inventoryService := services.NewInventoryService(repos.Products, repos.Variants, metrics, zlog)
	orderService := services.NewOrderService(repos.Orders)
	privacyService := services.NewPrivacyService(repos.Users, repos.Orders, tx, zlog)

	ctrls := routes.Controllers{
		Auth: controllers.NewAuthController(authService, controllers.CookieConfig{
			Name:   cfg.CookieName,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.TokenTTL,
		}),
		Users:       controllers.NewUserController(userService),
		Products:    controllers.NewProductController(catalogService),
		SessionCart: controllers.NewSessionCartController(sessionCartService, cfg.CookieSecure),
		Cart:        controllers.NewCartController(cartService),
		CartSync:    controllers.NewCartSyncController(cartSyncService),
		Payments:    controllers.NewPaymentController(checkoutService),
		Inventory:   controllers.NewInventoryController(inventoryService),
		Orders:      controllers.NewOrderController(orderService),
		Privacy:     controllers.NewPrivacyController(privacyService),
	}

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestLogger(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.MetricsMiddleware(metrics, serviceName),
		middleware.Timeout(30*time.Second),
		apperrors.ErrorMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName, "time": time.Now().UTC()})
	})

	routes.RegisterRoutes(r, ctrls,
		middleware.AuthMiddleware(tokenService, cfg.CookieName),
		middleware.AuthRateLimit(),
	)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("SneakerShop API started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zlog.Error("Event publisher close error", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zlog.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		zlog.Error("Database close error", zap.Error(err))
	}

	zlog.Info("SneakerShop API stopped gracefully")
}
