package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mreboux/registrar/internal/config"
)

// NewRedis creates the Redis client used by the rate limiter. The URL form
// ("redis://host:port/db") is parsed by the driver so auth and TLS options
// can be supplied without new config fields.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Unlike MariaDB there is no startup retry here. Redis comes up fast,
	// and the rate limiter already fails open if it drops later.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
