package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airtrips/config"
	"github.com/Domenick1991/airtrips/internal/kafka"
	"github.com/Domenick1991/airtrips/internal/logger"
	"github.com/Domenick1991/airtrips/internal/notify"
	"go.uber.org/zap"
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

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationsTopic, logg)
	defer consumer.Close()

	notifier := notify.NewNotifier(logg)

	logg.Info("worker started", zap.String("topic", cfg.Kafka.ReservationsTopic))
	if err := consumer.Consume(ctx, notifier.Send); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("consumer stopped", zap.Error(err))
		return
	}
	logg.Info("worker stopped")
}
