package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/muradsh/artmarket/config"
	"github.com/muradsh/artmarket/internal/bootstrap"
	"github.com/muradsh/artmarket/internal/cache"
	"github.com/muradsh/artmarket/internal/kafka"
	"github.com/muradsh/artmarket/internal/repository"
	"github.com/muradsh/artmarket/internal/service/booking"
	"github.com/muradsh/artmarket/internal/service/catalog"
	"github.com/muradsh/artmarket/internal/service/order"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.WorkshopsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	workshopRepo := repository.NewWorkshopRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	artworkRepo := repository.NewArtworkRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	catalogService := catalog.NewCatalogService(workshopRepo, artworkRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		workshopRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.AdmissionLockSeconds)*time.Second,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	orderService := order.NewOrderService(
		orderRepo,
		artworkRepo,
		producer,
		cfg.Kafka.OrderTopic,
		logger,
		order.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, logger, catalogService, bookingService, orderService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
