package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/config"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/handlers"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/logger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/metrics"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/middleware"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/redis"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/router"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/weather"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/websocket"
	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/client"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.LoadWithFile(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Service: "api-server",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
	}

	// Initialize services
	svcOpts := []service.Option{
		service.WithNotifier(hub),
		service.WithMetrics(m),
		service.WithLogger(log),
	}
	var bookingService service.BookingService
	switch cfg.App.Backend {
	case config.BackendTemporal:
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.Host,
			Namespace: cfg.Temporal.Namespace,
			Logger:    logger.NewTemporalLogger(log),
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to create Temporal client")
		}
		defer temporalClient.Close()
		log.WithField("host", cfg.Temporal.Host).Info("Connected to Temporal server")
		bookingService = service.NewTemporalBookingService(temporalClient, svcOpts...)
	default:
		bookingService = service.NewBookingService(ledger.NewSeeded(), svcOpts...)
	}

	weatherOpts := []weather.Option{weather.WithMetrics(m), weather.WithLogger(log)}
	if rdb != nil {
		weatherOpts = append(weatherOpts, weather.WithCache(weather.NewRedisCache(rdb), cfg.Weather.CacheTTL))
	}
	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout, weatherOpts...)

	// Initialize handlers
	h := handlers.NewHandler(bookingService,
		handlers.WithWeather(weatherClient),
		handlers.WithFlightWatcher(hub),
		handlers.WithLogger(log),
	)

	rate, err := middleware.ParseRate(cfg.RateLimit.Rate)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse rate limit")
	}
	store, err := middleware.NewRateLimitStore(rdb, rate.Period)
	if err != nil {
		log.WithError(err).Fatal("Failed to create rate limit store")
	}

	// Create router
	r := router.NewRouter(h, router.Options{
		Metrics: m.Handler(),
		Middleware: []mux.MiddlewareFunc{
			middleware.Recovery(log),
			middleware.RequestLogger(log),
			middleware.RateLimit(store, rate, log),
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.HTTP.Port,
			"backend": cfg.App.Backend,
		}).Info("API Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return
	}

	log.Info("Server stopped")
}
