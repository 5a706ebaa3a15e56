package rate

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Config selecciona el backend del limiter.
type Config struct {
	Kind   string // "memory" | "redis"
	Limit  int
	Window time.Duration

	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// New construye el limiter y una función de cleanup.
func New(ctx context.Context, cfg Config) (Limiter, func() error, error) {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, nil, fmt.Errorf("rate: limit and window must be positive")
	}
	switch cfg.Kind {
	case "redis":
		client := rdb.NewClient(&rdb.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		l := NewRedisLimiter(client, cfg.RedisPrefix, cfg.Limit, cfg.Window)
		if err := l.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("rate: redis ping %s: %w", cfg.RedisAddr, err)
		}
		return l, l.Close, nil
	case "memory", "":
		return NewMemoryLimiter(cfg.Limit, cfg.Window), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("rate: unknown kind %q", cfg.Kind)
	}
}
