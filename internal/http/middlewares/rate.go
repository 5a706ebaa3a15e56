package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"time"

	httperrors "github.com/idraxiom/contact-relay/internal/http/errors"
	"github.com/idraxiom/contact-relay/internal/metrics"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
	"github.com/idraxiom/contact-relay/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey genera una clave basada solo en IP (no lee el body).
// Con tp nil la clave es siempre RemoteAddr.
func IPOnlyRateKey(tp *TrustedProxies) RateKeyFunc {
	return tp.ClientIP
}

// RateLimitConfig configura el middleware de rate limiting.
type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
	// Prefijo de la clave, para separar contadores por endpoint.
	Scope string
}

// WithRateLimit corta con 429 + Retry-After cuando se excede el límite.
// Si el backend falla se deja pasar el request (fail-open).
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPOnlyRateKey(nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := cfg.KeyFunc(r)
			key := client
			if cfg.Scope != "" {
				key = cfg.Scope + "|" + key
			}

			res, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limit backend error",
					logger.Component("rate"),
					logger.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}

			if !res.Allowed {
				if res.RetryAfter > 0 {
					secs := int(math.Ceil(res.RetryAfter.Seconds()))
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				metrics.RateLimitRejects.WithLabelValues(r.URL.Path).Inc()
				logger.From(r.Context()).Info("rate limit exceeded",
					logger.ClientIP(client),
					logger.Int("hits", int(res.CurrentHits)),
				)
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
