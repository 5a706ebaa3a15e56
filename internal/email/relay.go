package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/idraxiom/contact-relay/internal/metrics"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
	"github.com/idraxiom/contact-relay/internal/util"
)

// ─── Errors ───

var (
	ErrInvalidInput         = errors.New("email: invalid input")
	ErrTransportUnavailable = errors.New("email: no transport available")
	ErrSendFailed           = errors.New("email: send failed")
)

// ─── Configuration ───

// RelayConfig contiene la identidad fija del mensaje saliente.
type RelayConfig struct {
	From Address // remitente, ej: "Idraxiom Website" <contact@idraxiom.com>
	To   string  // buzón del operador
}

// Relay valida una Submission, confirma el primer transport disponible
// (primary, luego fallback) y envía exactamente un mensaje por él.
// No guarda estado entre llamadas.
type Relay struct {
	composer   Composer
	transports []Transport
}

// NewRelay crea un Relay. El orden de transports es el orden de fallback.
func NewRelay(cfg RelayConfig, transports ...Transport) (*Relay, error) {
	if cfg.From.Email == "" {
		return nil, fmt.Errorf("relay: from address is required")
	}
	if cfg.To == "" {
		return nil, fmt.Errorf("relay: recipient is required")
	}
	if len(transports) == 0 {
		return nil, fmt.Errorf("relay: at least one transport is required")
	}
	return &Relay{
		composer:   Composer{From: cfg.From, To: cfg.To},
		transports: transports,
	}, nil
}

// ─── Deliver ───

// Deliver releva la Submission. Errores posibles (usar errors.Is):
// ErrInvalidInput, ErrTransportUnavailable, ErrSendFailed.
func (r *Relay) Deliver(ctx context.Context, sub Submission) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Op("Relay.Deliver"),
	)

	if err := sub.Validate(); err != nil {
		metrics.RecordSubmission("invalid")
		log.Info("submission rejected", logger.Err(err))
		return err
	}

	msg, err := r.composer.Compose(sub)
	if err != nil {
		metrics.RecordSubmission("send_failed")
		log.Error("failed to compose email", logger.Err(err))
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	start := time.Now()
	t, err := r.connect(ctx)
	if err != nil {
		metrics.RecordSubmission("transport_unavailable")
		log.Error("no smtp transport available", logger.Err(err))
		return err
	}

	err = t.Send(ctx, msg)
	metrics.RecordSend(t.Name(), time.Since(start).Seconds(), err)
	if err != nil {
		diag := DiagnoseSMTP(err)
		metrics.RecordSubmission("send_failed")
		log.Error("failed to send email",
			logger.Transport(t.Name()),
			logger.Err(err),
			logger.DiagCode(diag.Code),
			logger.Bool("temporary", diag.Temporary),
		)
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	metrics.RecordSubmission("delivered")
	log.Info("contact email sent",
		logger.Transport(t.Name()),
		logger.Email(util.MaskEmail(msg.ReplyTo)),
		logger.DurationMs(time.Since(start).Milliseconds()),
	)
	log.Debug("contact email reply-to", logger.Email(msg.ReplyTo))
	return nil
}

// connect retorna el primer transport que verifica. Sin reintentos ni backoff.
func (r *Relay) connect(ctx context.Context) (Transport, error) {
	log := logger.From(ctx)

	var errs []error
	for _, t := range r.transports {
		err := t.Verify(ctx)
		metrics.RecordVerify(t.Name(), err)
		if err == nil {
			log.Debug("smtp transport verified", logger.Transport(t.Name()))
			return t, nil
		}
		diag := DiagnoseSMTP(err)
		log.Warn("smtp transport verify failed",
			logger.Transport(t.Name()),
			logger.Err(err),
			logger.DiagCode(diag.Code),
		)
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrTransportUnavailable, errors.Join(errs...))
}

// ─── VerifyAll ───

// VerifyResult es el resultado de verificar un transport.
type VerifyResult struct {
	Transport string
	Err       error
	Diag      SMTPDiag
	Elapsed   time.Duration
}

// VerifyAll verifica todos los transports de forma independiente, sin
// enviar ningún mensaje. Usado por el comando `relay verify`.
func (r *Relay) VerifyAll(ctx context.Context) []VerifyResult {
	out := make([]VerifyResult, 0, len(r.transports))
	for _, t := range r.transports {
		start := time.Now()
		err := t.Verify(ctx)
		metrics.RecordVerify(t.Name(), err)
		res := VerifyResult{Transport: t.Name(), Err: err, Elapsed: time.Since(start)}
		if err != nil {
			res.Diag = DiagnoseSMTP(err)
		}
		out = append(out, res)
	}
	return out
}
