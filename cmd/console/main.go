package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/config"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/console"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/logger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service"
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

	// stdout belongs to the menu; logs go to stderr and stay quiet by default
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(logger.Config{
		Level:   level,
		Format:  logger.FormatText,
		File:    cfg.Log.File,
		Service: "console",
		Output:  os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// restore default handling so a second Ctrl+C kills the process
		<-ctx.Done()
		stop()
	}()

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
		bookingService = service.NewTemporalBookingService(temporalClient, service.WithLogger(log))
	default:
		bookingService = service.NewBookingService(ledger.NewSeeded(), service.WithLogger(log))
	}

	session := console.NewSession(bookingService, os.Stdin, os.Stdout, log)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("Console session failed")
		os.Exit(1)
	}
}
