package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
)

// SMTPTransport implementa Transport usando SMTP sobre go-mail.
type SMTPTransport struct {
	Profile            Profile
	Credentials        Credentials
	Timeout            time.Duration // 0 = default de go-mail (10s)
	InsecureSkipVerify bool          // solo dev
}

// NewSMTPTransport crea un transport para el perfil dado.
func NewSMTPTransport(p Profile, cred Credentials) *SMTPTransport {
	if p.TLSMode == "" {
		p.TLSMode = TLSModeAuto
	}
	return &SMTPTransport{Profile: p, Credentials: cred}
}

func (t *SMTPTransport) Name() string { return t.Profile.Name }

// Verify abre una conexión, negocia TLS, autentica y cierra.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	log := logger.From(ctx).With(
		logger.Component("SMTPTransport"),
		logger.Transport(t.Profile.Name),
		logger.Host(t.Profile.Host),
		logger.Port(t.Profile.Port),
		logger.TLSMode(t.Profile.TLSMode),
	)
	log.Debug("verifying smtp transport")

	sc, err := t.dialer().Dial()
	if err != nil {
		return fmt.Errorf("smtp verify %s: %w", t.Profile, err)
	}
	if err := sc.Close(); err != nil {
		log.Debug("smtp close after verify failed", logger.Err(err))
	}
	return nil
}

// Send envía el mensaje abriendo una conexión nueva.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	log := logger.From(ctx).With(
		logger.Component("SMTPTransport"),
		logger.Transport(t.Profile.Name),
		logger.Host(t.Profile.Host),
		logger.Port(t.Profile.Port),
	)
	log.Debug("sending email",
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
	)

	if err := t.dialer().DialAndSend(buildMailMessage(msg)); err != nil {
		return fmt.Errorf("smtp send %s: %w", t.Profile, err)
	}
	return nil
}

func (t *SMTPTransport) dialer() *mail.Dialer {
	p := t.Profile
	d := mail.NewDialer(p.Host, p.Port, t.Credentials.Username, t.Credentials.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         p.Host,
		InsecureSkipVerify: t.InsecureSkipVerify, // solo dev
	}
	if t.Timeout > 0 {
		d.Timeout = t.Timeout
	}
	// Verify y Send ya son intentos únicos; el Relay decide el fallback.
	d.RetryFailure = false

	switch p.TLSMode {
	case TLSModeSSL:
		d.SSL = true
	case TLSModeStartTLS:
		d.SSL = false
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case TLSModeNone:
		d.SSL = false
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// "auto": go-mail negocia STARTTLS si el server lo ofrece
		d.SSL = false
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d
}

// buildMailMessage arma un multipart/alternative (txt + html).
func buildMailMessage(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", msg.From.Email, msg.From.Name)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}
	return m
}
