package email

import (
	"fmt"
	"strings"
)

// Submission es el triple name/email/message enviado por un visitante.
// Vive solo durante el request; nunca se persiste.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// Validate falla con ErrInvalidInput si falta algún campo o está vacío.
// Un valor compuesto solo por espacios cuenta como vacío.
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// TLS modes soportados por un Profile.
const (
	TLSModeSSL      = "ssl"      // TLS implícito (465)
	TLSModeStartTLS = "starttls" // socket plano + upgrade obligatorio (587)
	TLSModeAuto     = "auto"     // STARTTLS si el server lo ofrece
	TLSModeNone     = "none"     // sin TLS, solo dev
)

// ValidTLSMode reporta si mode es uno de los modos soportados.
func ValidTLSMode(mode string) bool {
	switch mode {
	case TLSModeSSL, TLSModeStartTLS, TLSModeAuto, TLSModeNone:
		return true
	}
	return false
}

// Profile es un endpoint SMTP: host/port/modo de cifrado.
type Profile struct {
	Name    string
	Host    string
	Port    int
	TLSMode string
}

func (p Profile) String() string {
	return fmt.Sprintf("%s(%s:%d/%s)", p.Name, p.Host, p.Port, p.TLSMode)
}

// Credentials es la credencial compartida por todos los perfiles.
type Credentials struct {
	Username string
	Password string
}

// Address es una dirección con nombre visible opcional.
type Address struct {
	Name  string
	Email string
}

// Message es un email compuesto listo para enviar.
type Message struct {
	From    Address
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}
