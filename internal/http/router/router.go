// Package router arma el chi router del servicio.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	contactctrl "github.com/idraxiom/contact-relay/internal/http/controllers/contact"
	healthctrl "github.com/idraxiom/contact-relay/internal/http/controllers/health"
	httperrors "github.com/idraxiom/contact-relay/internal/http/errors"
	mw "github.com/idraxiom/contact-relay/internal/http/middlewares"
	"github.com/idraxiom/contact-relay/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Contact *contactctrl.ContactController
	Health  *healthctrl.HealthController

	// Opcionales
	RateLimiter    rate.Limiter // nil = sin rate limit
	MetricsHandler http.Handler // nil = sin /metrics
	CORSOrigins    []string

	// TrustedProxies decide si se leen X-Forwarded-For / X-Real-IP para la
	// key del rate limit. nil = solo RemoteAddr.
	TrustedProxies *mw.TrustedProxies
}

// New registra todas las rutas y devuelve el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Infra base para todo, incluido 404/405 y preflight CORS.
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithCORS(deps.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if allow := allowedMethods(r, req.URL.Path); allow != "" {
			w.Header().Set("Allow", allow)
		}
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, deps)
	registerContactRoutes(r, deps)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// allowedMethods arma el header Allow con los métodos registrados para path.
func allowedMethods(routes chi.Routes, path string) string {
	var allow []string
	for _, m := range routeMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			allow = append(allow, m)
		}
	}
	return strings.Join(allow, ", ")
}
