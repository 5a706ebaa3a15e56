package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/idraxiom/contact-relay/internal/http/middlewares"
)

const contactPath = "/api/contact"

// registerContactRoutes registra POST /api/contact.
func registerContactRoutes(r chi.Router, deps Deps) {
	if deps.Contact == nil {
		return
	}

	chain := []func(next http.Handler) http.Handler{
		mw.WithMetrics(),
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
	}

	// Rate limiting por IP si está configurado
	if deps.RateLimiter != nil {
		chain = append(chain, mw.WithRateLimit(mw.RateLimitConfig{
			Limiter: deps.RateLimiter,
			KeyFunc: mw.IPOnlyRateKey(deps.TrustedProxies),
			Scope:   "contact",
		}))
	}

	r.With(chain...).Post(contactPath, deps.Contact.Submit)
}
