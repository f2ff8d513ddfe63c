package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ministore/pkg/logger"
	"ministore/pkg/metrics"
	"ministore/store-service/internal/app/store/config"
	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/handler"
	"ministore/store-service/internal/app/store/infrastructure"
	"ministore/store-service/internal/app/store/infrastructure/cache"
	"ministore/store-service/internal/app/store/infrastructure/messaging"
	"ministore/store-service/internal/app/store/repository"
	"ministore/store-service/internal/app/store/scheduler"
	"ministore/store-service/internal/app/store/service"
	"ministore/store-service/internal/app/store/util"
)

const serviceName = "store-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(logger.Options{
		Service:      serviceName,
		Level:        cfg.Log.Level,
		LogstashAddr: cfg.Log.LogstashAddr,
	}); err != nil {
		logger.Warn().Err(err).Msg("Logstash is unavailable, using stdout only")
	}

	// Денежные значения отдаются JSON-числами
	decimal.MarshalJSONWithoutQuotes = true

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := db.Use(metrics.NewGormPlugin(serviceName)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register database metrics")
	}

	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	redisClient, err := connectRedis(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := newTokenRepository(cfg.Auth.TokenStore, db, redisClient)

	jwtManager := util.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.AccessDuration,
		cfg.JWT.RefreshDuration,
	)
	hasher := util.NewPasswordHasher(cfg.Auth.BcryptCost)

	categoryService := service.NewCategoryService(categoryRepo, cache.NewRedisCategoryCache(redisClient), cfg.Redis.CategoriesTTL)
	productService := service.NewProductService(productRepo, categoryRepo, publisher)
	orderService := service.NewOrderService(orderRepo, productRepo, publisher, cfg.Orders.ReserveStock)
	authService := service.NewAuthService(userRepo, tokenRepo, jwtManager, hasher)

	if cfg.Orders.ReserveStock {
		logger.Info().Msg("Stock reservation on order creation is enabled")
	}

	ctx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	cleanupScheduler := scheduler.NewTokenCleanupScheduler(authService)
	if err := cleanupScheduler.Start(ctx, cfg.Auth.CleanupSchedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Auth.CleanupSchedule).Msg("Failed to start token cleanup scheduler")
	}

	router := handler.SetupRoutes(handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService),
		Order:    handler.NewOrderHandler(orderService),
	}, handler.NewAuthMiddleware(authService))

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Store Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Store Service...")

	cleanupScheduler.Stop()
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Store Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectRedis создает Redis клиент и проверяет соединение
func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// newPublisher возвращает Kafka producer или заглушку, если брокеры не заданы
func newPublisher(cfg config.KafkaConfig) infrastructure.MessagePublisher {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("Kafka brokers are not configured, events are disabled")
		return messaging.NopPublisher{}
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Initialized Kafka producer")
	return messaging.NewKafkaProducer(cfg.Brokers, cfg.Topic)
}

func newTokenRepository(store string, db *gorm.DB, redisClient *redis.Client) repository.TokenRepository {
	if store == config.TokenStoreRedis {
		logger.Info().Msg("Using Redis refresh token store")
		return repository.NewRedisTokenRepository(redisClient)
	}
	logger.Info().Msg("Using PostgreSQL refresh token store")
	return repository.NewTokenRepository(db)
}
