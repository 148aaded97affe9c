package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zaharysh37/order-service/internal/repository"
	"github.com/Zaharysh37/order-service/internal/service"
	"github.com/Zaharysh37/order-service/internal/transport/http"
	"github.com/Zaharysh37/order-service/internal/transport/http/handler"
	transportKafka "github.com/Zaharysh37/order-service/internal/transport/kafka"
	"github.com/Zaharysh37/order-service/internal/userclient"
	"github.com/Zaharysh37/order-service/pkg/breaker"
	"github.com/Zaharysh37/order-service/pkg/config"
	"github.com/Zaharysh37/order-service/pkg/db"
	pkgKafka "github.com/Zaharysh37/order-service/pkg/kafka"
	"github.com/Zaharysh37/order-service/pkg/logging"
	"github.com/Zaharysh37/order-service/pkg/telemetry"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := telemetry.InitTracer(ctx, "order-service")
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: cfg.Log.Level,
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("failed to create pool: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

	userBreaker := breaker.New(breaker.Settings{
		Name:                "UserService",
		ConsecutiveFailures: cfg.UserService.BreakerFailures,
		Cooldown:            cfg.UserService.BreakerCooldown,
	}, logger)

	users := userclient.New(userclient.Config{
		BaseURL: cfg.UserService.URL,
		Timeout: cfg.UserService.Timeout,
	}, userBreaker, logger)

	producer, err := pkgKafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warn("error closing kafka producer", zap.Error(err))
		}
	}()

	orderRepo := repository.NewOrderRepository(pool, logger)
	itemRepo := repository.NewItemRepository(pool, logger)

	orderService := service.NewOrderService(pool, logger, orderRepo, itemRepo, users, producer, cfg.Kafka.ProducerTopic)
	itemService := service.NewCachedItemService(service.NewItemService(itemRepo, logger), redisClient)

	consumer := transportKafka.NewConsumer(orderService, logger, cfg.Kafka.GroupID, []string{cfg.Kafka.ConsumerTopic})

	go func() {
		if err := consumer.Start(ctx, cfg.Kafka.Brokers); err != nil {
			logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	app := fiber.New()
	app.Use(otelfiber.Middleware())

	http.RegisterRoutes(app, &http.Handlers{
		Order: handler.NewOrderHandler(orderService, logger),
		Item:  handler.NewItemHandler(itemService, logger),
	}, cfg.Auth.JWTSecret)

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("error listening on %v: %v", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logging.Info(shutdownCtx, logger, "Shutting down order service")

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Warn(shutdownCtx, logger, "Failed to shut down HTTP server", zap.Error(err))
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		logging.Warn(shutdownCtx, logger, "Failed to shut down telemetry", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logging.Warn(shutdownCtx, logger, "Failed to close redis client", zap.Error(err))
	}

	pool.Close()
}
