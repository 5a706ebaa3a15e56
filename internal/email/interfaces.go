package email

import "context"

// Transport es el colaborador saliente del Relay.
// Implementado por SMTPTransport; los tests usan fakes.
type Transport interface {
	// Name identifica el perfil ("primary", "fallback").
	Name() string

	// Verify confirma que el servidor es alcanzable y acepta las credenciales.
	// No envía ningún mensaje.
	Verify(ctx context.Context) error

	// Send entrega un mensaje ya compuesto.
	Send(ctx context.Context, msg Message) error
}
