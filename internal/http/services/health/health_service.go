// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/idraxiom/contact-relay/internal/email"
	dto "github.com/idraxiom/contact-relay/internal/http/dto/health"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	// RedisCheck es nil cuando el rate limit usa memoria.
	RedisCheck func(ctx context.Context) error
	// Profiles solo se reportan; /readyz nunca abre conexiones SMTP.
	Profiles    []email.Profile
	RateEnabled bool
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components:   make(map[string]dto.HealthStatus),
		MailProfiles: make([]dto.MailProfile, 0, len(s.deps.Profiles)),
		Version:      os.Getenv("SERVICE_VERSION"),
		Commit:       os.Getenv("SERVICE_COMMIT"),
		Timestamp:    time.Now().UTC(),
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Mail profiles (crítico: sin profiles no hay relay)
	for _, p := range s.deps.Profiles {
		response.MailProfiles = append(response.MailProfiles, dto.MailProfile{
			Name:    p.Name,
			Host:    p.Host,
			Port:    p.Port,
			TLSMode: p.TLSMode,
		})
	}
	if len(s.deps.Profiles) == 0 {
		response.Components["mail"] = dto.HealthStatus{Status: "error", Message: "no transport configured"}
		hasCriticalErrors = true
	} else {
		response.Components["mail"] = dto.HealthStatus{
			Status:  "ok",
			Message: fmt.Sprintf("%d profile(s) configured, not probed", len(s.deps.Profiles)),
		}
	}

	// 2) Rate limit backend (no crítico: el middleware es fail-open)
	switch {
	case !s.deps.RateEnabled:
		response.Components["rate_limit"] = dto.HealthStatus{Status: "disabled"}
	case s.deps.RedisCheck != nil:
		if err := s.deps.RedisCheck(ctx); err != nil {
			response.Components["rate_limit"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("redis unavailable: %v", err),
			}
			hasErrors = true
			log.Error("redis unavailable", logger.Err(err))
		} else {
			response.Components["rate_limit"] = dto.HealthStatus{Status: "ok", Message: "redis"}
		}
	default:
		response.Components["rate_limit"] = dto.HealthStatus{Status: "ok", Message: "memory"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}
	return response
}
