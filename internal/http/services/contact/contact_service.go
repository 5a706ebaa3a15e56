// Package contact contiene el service del formulario de contacto.
package contact

import (
	"context"

	"github.com/idraxiom/contact-relay/internal/email"
	dto "github.com/idraxiom/contact-relay/internal/http/dto/contact"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
)

// Deliverer es lo que el service necesita del relay.
type Deliverer interface {
	Deliver(ctx context.Context, sub email.Submission) error
}

// ContactService define las operaciones del formulario de contacto.
type ContactService interface {
	// Submit devuelve los errores del relay sin traducir
	// (email.ErrInvalidInput, email.ErrTransportUnavailable, email.ErrSendFailed).
	Submit(ctx context.Context, req dto.ContactRequest) error
}

type contactService struct {
	relay Deliverer
}

// NewContactService crea el service.
func NewContactService(relay Deliverer) ContactService {
	return &contactService{relay: relay}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Op("ContactService.Submit"),
	)
	log.Debug("contact submission received", logger.Email(req.Email))

	return s.relay.Deliver(ctx, email.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
}
