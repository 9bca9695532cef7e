package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/config"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/logger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/redis"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/weather"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	city := flag.String("city", "", "city to look up, e.g. Lahore")
	unitFlag := flag.String("unit", "C", "C or F")
	flag.Parse()

	cfg, err := config.LoadWithFile(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  logger.FormatText,
		Service: "weather",
		Output:  os.Stderr,
	})

	unit, err := weather.ParseUnit(*unitFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()
	opts := []weather.Option{weather.WithLogger(log)}
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer rdb.Close()
			opts = append(opts, weather.WithCache(weather.NewRedisCache(rdb), cfg.Weather.CacheTTL))
		}
	}

	client := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout, opts...)
	report, err := client.Fetch(ctx, *city)
	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		fmt.Fprintln(os.Stderr, "Please provide a city with -city")
		os.Exit(2)
	case errors.Is(err, weather.ErrCityNotFound):
		fmt.Fprintf(os.Stderr, "City '%s' not found. Please check the spelling.\n", *city)
		os.Exit(1)
	case err != nil:
		log.WithError(err).Error("Could not retrieve weather data. Please try again later.")
		os.Exit(1)
	}

	summary, err := weather.Summarize(report, unit)
	if err != nil {
		log.WithError(err).Error("Weather report is incomplete")
		os.Exit(1)
	}
	if err := weather.WriteText(os.Stdout, summary); err != nil {
		log.WithError(err).Error("Failed to write summary")
		os.Exit(1)
	}
}
