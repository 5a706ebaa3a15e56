package email

import "time"

// TransportOptions aplica a todos los perfiles.
type TransportOptions struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// NewSMTPTransports construye un SMTPTransport por perfil, respetando el orden
// (el primero es el primary). Todos comparten la misma credencial.
func NewSMTPTransports(profiles []Profile, cred Credentials, opts TransportOptions) []Transport {
	out := make([]Transport, 0, len(profiles))
	for _, p := range profiles {
		t := NewSMTPTransport(p, cred)
		t.Timeout = opts.Timeout
		t.InsecureSkipVerify = opts.InsecureSkipVerify
		out = append(out, t)
	}
	return out
}
