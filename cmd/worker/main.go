package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/muradsh/artmarket/config"
	"github.com/muradsh/artmarket/internal/cache"
	"github.com/muradsh/artmarket/internal/email"
	"github.com/muradsh/artmarket/internal/kafka"
	"github.com/muradsh/artmarket/internal/repository"
	"github.com/muradsh/artmarket/internal/service/catalog"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.WorkshopsCacheTTLSeconds)*time.Second)
	workshopRepo := repository.NewWorkshopRepository(pool)
	artworkRepo := repository.NewArtworkRepository(pool)
	catalogService := catalog.NewCatalogService(workshopRepo, artworkRepo, redisCache)

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			return handleNotification(ctx, sender, logger, msg.Value)
		}); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	refreshTicker := time.NewTicker(time.Duration(cfg.Worker.CacheRefreshMinutes) * time.Minute)
	defer refreshTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refreshTicker.C:
			if err := catalogService.RefreshWorkshopsCache(ctx); err != nil {
				logger.Warn("refresh workshops cache", zap.Error(err))
			}
		case s := <-sig:
			logger.Info("shutting down", zap.String("signal", s.String()))
			return
		}
	}
}

// handleNotification dispatches by payload shape: booking events carry a
// booking_id, order events an order_id.
func handleNotification(ctx context.Context, sender *email.Sender, logger *zap.Logger, payload []byte) error {
	var probe struct {
		BookingID string `json:"booking_id"`
		OrderID   string `json:"order_id"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		logger.Warn("decode notification", zap.Error(err))
		return nil
	}

	switch {
	case probe.BookingID != "":
		var event kafka.BookingEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil
		}
		return sender.SendBooking(ctx, event)
	case probe.OrderID != "":
		var event kafka.OrderEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil
		}
		return sender.SendOrder(ctx, event)
	default:
		logger.Warn("unrecognized notification payload")
		return nil
	}
}
