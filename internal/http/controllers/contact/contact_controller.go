// Package contact contiene el controller del formulario de contacto.
package contact

import (
	"errors"
	"net/http"

	"github.com/idraxiom/contact-relay/internal/email"
	dto "github.com/idraxiom/contact-relay/internal/http/dto/contact"
	httperrors "github.com/idraxiom/contact-relay/internal/http/errors"
	"github.com/idraxiom/contact-relay/internal/http/helpers"
	svc "github.com/idraxiom/contact-relay/internal/http/services/contact"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
	"go.uber.org/zap"
)

const successMessage = "Email sent successfully"

// ContactController maneja POST /api/contact.
type ContactController struct {
	service svc.ContactService
}

// NewContactController crea el controller.
func NewContactController(s svc.ContactService) *ContactController {
	return &ContactController{service: s}
}

// Submit maneja POST /api/contact
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ContactController.Submit"))

	var req dto.ContactRequest
	if !helpers.ReadJSON(w, r, &req) {
		log.Debug("invalid request body")
		return
	}

	if err := c.service.Submit(ctx, req); err != nil {
		c.handleServiceError(w, err, log)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ContactResponse{
		Success: true,
		Message: successMessage,
	})
}

func (c *ContactController) handleServiceError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, email.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithCause(err))
	case errors.Is(err, email.ErrTransportUnavailable):
		log.Error("contact email not sent: no transport available", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrMailTransportUnavailable.WithCause(err))
	case errors.Is(err, email.ErrSendFailed):
		log.Error("contact email not sent: send failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrMailSendFailed.WithCause(err))
	default:
		log.Error("unexpected contact error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
