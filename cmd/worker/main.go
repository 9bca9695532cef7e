package main

import (
	"flag"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/activities"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/config"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/logger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
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
		Service: "temporal-worker",
	})

	// Connect to Temporal
	log.WithField("host", cfg.Temporal.Host).Info("Connecting to Temporal...")
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logger.NewTemporalLogger(log),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Temporal")
	}
	defer c.Close()
	log.Info("Connected to Temporal")

	// The worker owns the only ledger; every server talks to it through workflows.
	l := ledger.NewSeeded()

	// Create worker
	w := worker.New(c, models.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(workflows.BookFlightWorkflow)
	w.RegisterWorkflow(workflows.CancelBookingWorkflow)
	w.RegisterWorkflow(workflows.ListFlightsWorkflow)
	w.RegisterWorkflow(workflows.ListBookingsWorkflow)

	// Create and register activities
	acts := activities.NewActivities(l)
	w.RegisterActivityWithOptions(acts.ListFlights, activity.RegisterOptions{Name: activities.ListFlightsName})
	w.RegisterActivityWithOptions(acts.BookFlight, activity.RegisterOptions{Name: activities.BookFlightName})
	w.RegisterActivityWithOptions(acts.ListBookings, activity.RegisterOptions{Name: activities.ListBookingsName})
	w.RegisterActivityWithOptions(acts.CancelBooking, activity.RegisterOptions{Name: activities.CancelBookingName})

	// Start worker
	log.WithField("taskQueue", models.TaskQueue).Info("Starting Temporal worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.WithError(err).Fatal("Worker failed")
	}
}
