package email

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/textproto"
	"strings"

	mail "github.com/go-mail/mail"
)

// SMTPDiag contiene información de diagnóstico de un error SMTP.
type SMTPDiag struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool   // si un reintento manual tiene sentido
}

// DiagnoseSMTP analiza un error SMTP y retorna información de diagnóstico.
// Solo alimenta logs y métricas; el Relay no reintenta.
//
// Primero mira los tipos que devuelven go-mail, net/smtp y crypto/tls; el
// texto del error solo se usa como último recurso.
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}

	// go-mail: el server no anuncia STARTTLS y la policy es Mandatory
	var startTLS mail.StartTLSUnsupportedError
	if errors.As(err, &startTLS) {
		return SMTPDiag{Code: "tls"}
	}

	// respuestas SMTP (net/smtp devuelve *textproto.Error)
	var reply *textproto.Error
	if errors.As(err, &reply) {
		return diagnoseReply(reply.Code, strings.ToLower(reply.Msg))
	}

	// tls/handshake/cert
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalidCert      x509.CertificateInvalidError
		recordHeader     tls.RecordHeaderError
		certVerify       *tls.CertificateVerificationError
	)
	if errors.As(err, &unknownAuthority) || errors.As(err, &hostname) ||
		errors.As(err, &invalidCert) || errors.As(err, &recordHeader) ||
		errors.As(err, &certVerify) {
		return SMTPDiag{Code: "tls"}
	}

	var ne net.Error
	isNetErr := errors.As(err, &ne)
	if isNetErr && ne.Timeout() {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return SMTPDiag{Code: "dial", Temporary: true}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return SMTPDiag{Code: "dial", Temporary: true}
	}

	// fallback por texto (errores ya aplanados a string)
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "timeout"):
		return SMTPDiag{Code: "timeout", Temporary: true}
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "connectex:"), // windows
		strings.Contains(s, "no such host"),
		strings.Contains(s, "dial tcp"):
		return SMTPDiag{Code: "dial", Temporary: true}
	case strings.Contains(s, "x509:"),
		strings.Contains(s, "does not support starttls"),
		strings.Contains(s, "tls: "):
		return SMTPDiag{Code: "tls"}
	}
	if code, msg, ok := parseReply(s); ok {
		return diagnoseReply(code, msg)
	}

	if isNetErr {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}

// diagnoseReply clasifica por código SMTP y, dentro del código, por el
// enhanced status (RFC 3463) si viene en el texto.
func diagnoseReply(code int, msg string) SMTPDiag {
	switch {
	case code == 535 || code == 534 || code == 530 || strings.HasPrefix(msg, "5.7.8"):
		return SMTPDiag{Code: "auth"}
	case code == 421 || code == 450 || code == 451 || code == 452:
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	case code == 550 && strings.HasPrefix(msg, "5.1.1"),
		code == 551 || code == 553:
		return SMTPDiag{Code: "invalid_recipient"}
	case code == 554 || code == 550 || code == 552:
		return SMTPDiag{Code: "rejected"}
	case code >= 400 && code < 500:
		return SMTPDiag{Code: "rate_limited", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}

// parseReply reconoce "NNN texto" al inicio del error.
func parseReply(s string) (int, string, bool) {
	if len(s) < 4 || s[3] != ' ' {
		return 0, "", false
	}
	code := 0
	for _, c := range s[:3] {
		if c < '0' || c > '9' {
			return 0, "", false
		}
		code = code*10 + int(c-'0')
	}
	if code < 400 || code > 599 {
		return 0, "", false
	}
	return code, strings.TrimSpace(s[4:]), true
}
