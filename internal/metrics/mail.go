package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Mail-related Prometheus metrics. These are defined in a standalone package to avoid
// import cycles between the email relay and the HTTP packages.

var (
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Submissions del formulario de contacto por resultado",
	}, []string{"result"}) // delivered|invalid|transport_unavailable|send_failed

	MailVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_transport_verify_total",
		Help: "Intentos de verificación de transport SMTP",
	}, []string{"transport", "result"}) // ok|error

	MailSendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_send_total",
		Help: "Envíos SMTP por transport y resultado",
	}, []string{"transport", "result"})

	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mail_send_duration_seconds",
		Help:    "Duración de verify + send por transport",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"transport"})
)

// RegisterMail registers the mail metrics on the given registry (or default if nil).
func RegisterMail(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{ContactSubmissions, MailVerifyTotal, MailSendTotal, MailSendDuration} {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordSubmission cuenta una submission por resultado.
func RecordSubmission(res string) {
	ContactSubmissions.WithLabelValues(res).Inc()
}

// RecordVerify cuenta un intento de verificación de transport.
func RecordVerify(transport string, err error) {
	MailVerifyTotal.WithLabelValues(transport, result(err)).Inc()
}

// RecordSend cuenta un envío y su duración.
func RecordSend(transport string, seconds float64, err error) {
	MailSendTotal.WithLabelValues(transport, result(err)).Inc()
	MailSendDuration.WithLabelValues(transport).Observe(seconds)
}
