package redis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config describes the Redis connection. An empty URL disables Redis.
type Config struct {
	URL          string `split_words:"true"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

// New parses the URL, applies the timeouts (seconds) and pings the server.
func (c Config) New(ctx context.Context) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(c.URL)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = time.Duration(c.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(c.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(c.DialTimeout) * time.Second

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOrFallback returns a live client or nil when Redis is not configured or unreachable.
func ConnectOrFallback(ctx context.Context, cfg Config, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(cfg.URL) == "" {
		if logger != nil {
			logger.Warn("REDIS_URL not set, falling back to in-memory cart store")
		}
		return nil, func() {}
	}
	client, err := cfg.New(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory cart store", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
