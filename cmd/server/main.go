package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/trading-dashboard/internal/catalog"
	"github.com/yourorg/trading-dashboard/internal/client"
	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/handler"
	"github.com/yourorg/trading-dashboard/internal/kafka"
	"github.com/yourorg/trading-dashboard/internal/middleware"
	"github.com/yourorg/trading-dashboard/internal/notify"
	"github.com/yourorg/trading-dashboard/internal/service"
	"github.com/yourorg/trading-dashboard/internal/session"
	"github.com/yourorg/trading-dashboard/internal/validator"
	"github.com/yourorg/trading-dashboard/internal/websocket"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Analytics backend
	api := client.NewAnalyticsClient(cfg.Backend.URL, cfg.Backend.Timeout, logger)
	if err := waitForBackend(ctx, api, cfg.Backend.StartupWait, logger); err != nil {
		if cfg.Backend.RequireHealth {
			logger.Fatal("Analytics backend unavailable", zap.Error(err))
		}
		logger.Warn("Analytics backend unavailable, starting anyway", zap.Error(err))
	}

	// Optional infrastructure
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = setupRedis(cfg, logger)
		if err != nil {
			logger.Error("Failed to set up Redis", zap.Error(err))
			// Continue without Redis
		}
	}

	var kafkaProducer *kafka.Producer
	if cfg.Kafka.Enabled {
		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientID, logger)
		logger.Info("Initialized Kafka producer", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// Websocket hub
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// Notification sinks beyond the per-session feed
	sinks := []notify.Notifier{notify.NewHubNotifier(hub)}
	if kafkaProducer != nil {
		sinks = append(sinks, notify.NewKafkaNotifier(kafkaProducer))
	}

	// Sessions
	store := session.NewStore(api, session.Options{
		IdleTimeout:      cfg.Session.IdleTimeout,
		OperationTimeout: cfg.Operation.Timeout,
		FeedSize:         cfg.Notifications.FeedSize,
		Sinks:            sinks,
		Hub:              hub,
	}, logger)
	go store.RunJanitor(ctx, cfg.Session.JanitorInterval)
	tokens := session.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TokenTTL)

	dashboardService := service.NewDashboardService(api, catalog.NewMemo(0), validator.NewFormValidator(), logger)

	router := setupRouter(ctx, cfg, logger, dashboardService, store, tokens, hub, redisClient, kafkaProducer)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting dashboard server",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", api.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stop()
	store.Close()

	if kafkaProducer != nil {
		kafkaProducer.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited properly")
}

// waitForBackend polls the backend health endpoint with exponential backoff until it
// answers or maxWait elapses
func waitForBackend(ctx context.Context, api *client.AnalyticsClient, maxWait time.Duration, logger *zap.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = maxWait

	return backoff.RetryNotify(func() error {
		_, err := api.HealthCheck(ctx)
		return err
	}, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		logger.Info("Waiting for analytics backend", zap.Duration("retry_in", next))
	})
}

// setupRedis initializes the Redis client
func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	redisOptions, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("Failed to parse Redis URL, using it as an address", zap.Error(err))
		redisOptions = &redis.Options{
			Addr: cfg.Redis.URL,
			DB:   0,
		}
	}

	redisClient := redis.NewClient(redisOptions)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		redisClient.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", redisOptions.Addr))
	return redisClient, nil
}

func setupRouter(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	dashboardService *service.DashboardService,
	store *session.Store,
	tokens *session.TokenIssuer,
	hub *websocket.Hub,
	redisClient *redis.Client,
	kafkaProducer *kafka.Producer,
) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Rate limiting shared through Redis when available
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			router.Use(middleware.RedisRateLimit(redisClient, middleware.RedisRateLimitConfig{
				RequestsPerMinute:  cfg.RateLimit.RequestsPerMinute,
				ClientIPHeaderName: cfg.RateLimit.ClientIPHeaderName,
			}, logger))
		} else {
			limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
			go limiter.RunPruner(ctx, time.Minute)
			router.Use(middleware.RateLimit(limiter, cfg.RateLimit.ClientIPHeaderName))
		}
	}

	router.Use(middleware.Session(store, tokens, middleware.SessionConfig{
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
	}, logger))

	if redisClient != nil && cfg.Cache.Enabled {
		router.Use(middleware.RedisCache(redisClient, middleware.CacheConfig{
			Duration:      cfg.Cache.Duration,
			PrefixKey:     cfg.Cache.Prefix,
			IncludedPaths: cfg.Cache.IncludedPaths,
		}, logger))
	}

	if kafkaProducer != nil {
		router.Use(middleware.Audit(kafkaProducer, logger))
	}

	dependencies := map[string]handler.Pinger{}
	if redisClient != nil {
		dependencies["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	router.GET("/health", handler.NewHealthHandler(dashboardService, dependencies).Health)
	router.GET("/ws", handler.NewWebSocketHandler(hub, cfg.CORS.AllowedOrigins, logger).Connect)

	handler.NewDashboardHandler(dashboardService, logger).RegisterRoutes(router.Group("/api"))

	return router
}

func createLogger(level, format string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
