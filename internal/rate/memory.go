package rate

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es el mismo fixed window que RedisLimiter pero in-process.
// Solo sirve con una única réplica.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration

	now func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.Window)
	ttl := winStart.Add(l.Window).Sub(now)
	k := key + ":" + strconv.FormatInt(winStart.Unix(), 10)

	// Add falla si la key ya existe: la ventana ya estaba abierta.
	_ = l.c.Add(k, int64(0), ttl)
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		// expiró entre Add e Increment: abrir de nuevo
		l.c.Set(k, int64(1), ttl)
		hits = 1
	}
	return evaluate(hits, l.Max, ttl), nil
}
