package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airtrips/api"
	"github.com/Domenick1991/airtrips/config"
	"github.com/Domenick1991/airtrips/internal/bootstrap"
	"github.com/Domenick1991/airtrips/internal/cache"
	"github.com/Domenick1991/airtrips/internal/kafka"
	"github.com/Domenick1991/airtrips/internal/logger"
	"github.com/Domenick1991/airtrips/internal/repository"
	"github.com/Domenick1991/airtrips/internal/service/auth"
	"github.com/Domenick1991/airtrips/internal/service/booking"
	"github.com/Domenick1991/airtrips/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			logg.Fatal("migrate schema", zap.Error(err))
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.SearchCacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logg)
	defer producer.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		logg.Warn("kafka unavailable, reservation events will be dropped", zap.Error(err))
	}
	cancel()

	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache,
		flights.WithSearchLimit(cfg.Booking.SearchLimit),
		flights.WithLogger(logg),
	)
	bookingService := booking.NewBookingService(reservationRepo,
		booking.WithCapacity(cfg.Booking.MaxFlightBookings),
		booking.WithRetry(cfg.Booking.MaxRetries, cfg.Booking.RetryBaseDelay()),
		booking.WithTimeout(cfg.Booking.OperationTimeout(), cfg.Booking.LockTimeout()),
		booking.WithEvents(producer, cfg.Kafka.ReservationsTopic),
		booking.WithLogger(logg),
	)
	authService := auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	services := api.Services{Auth: authService, Flights: flightService, Bookings: bookingService}
	if err := bootstrap.Run(ctx, cfg, services, logg); err != nil {
		logg.Fatal("server error", zap.Error(err))
	}
}
