package email

import (
	"bytes"
	"fmt"
	"strings"
)

// Composer arma el email del formulario de contacto.
type Composer struct {
	From Address
	To   string
}

// Compose construye el Message para una Submission ya validada.
// El texto plano lleva los campos tal cual; el HTML los escapa.
func (c Composer) Compose(sub Submission) (Message, error) {
	var text, html bytes.Buffer
	if err := contactText.Execute(&text, sub); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := contactHTML.Execute(&html, sub); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}

	return Message{
		From:    c.From,
		To:      c.To,
		ReplyTo: strings.TrimSpace(sub.Email),
		Subject: subjectFor(sub.Name),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// subjectFor aplana saltos de línea para que el nombre no rompa el header.
func subjectFor(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return "New message from " + name
}
