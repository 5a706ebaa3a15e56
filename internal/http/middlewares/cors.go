package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// WithCORS habilita CORS para los orígenes permitidos ("*" = cualquiera).
// Sin orígenes configurados no se agrega ningún header CORS.
func WithCORS(allowed []string) Middleware {
	origins := make([]string, 0, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           600, // preflight cache 10 min
	})
}
