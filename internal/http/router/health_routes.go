package router

import (
	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes registra /readyz. Público, sin logging (muy frecuente).
func registerHealthRoutes(r chi.Router, deps Deps) {
	if deps.Health == nil {
		return
	}
	r.Get("/readyz", deps.Health.Readyz)
	r.Head("/readyz", deps.Health.Readyz)

	// alias
	r.Get("/healthz", deps.Health.Readyz)
}
