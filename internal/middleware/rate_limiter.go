package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	stdlibmiddleware "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "rate_limiter:api"

// NewRateLimitStore returns a Redis-backed store when a client is given and
// an in-process store otherwise.
func NewRateLimitStore(rdb *redis.Client, period time.Duration) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: period,
		}), nil
	}

	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		MaxRetry:        3,
		CleanUpInterval: period,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return store, nil
}

// ParseRate reads the limiter's formatted notation, e.g. "100-M" for
// 100 requests per minute.
func ParseRate(rateStr string) (limiter.Rate, error) {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid rate %q: %w", rateStr, err)
	}
	return rate, nil
}

// RateLimit limits requests per client IP
func RateLimit(store limiter.Store, rate limiter.Rate, log logrus.FieldLogger) func(http.Handler) http.Handler {
	mw := stdlibmiddleware.NewMiddleware(
		limiter.New(store, rate),
		stdlibmiddleware.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests","code":"RateLimited"}`))
		}),
		stdlibmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).Error("rate limiter failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal server error","code":"Internal"}`))
		}),
	)
	return mw.Handler
}
