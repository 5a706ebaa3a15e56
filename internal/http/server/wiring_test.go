package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idraxiom/contact-relay/internal/config"
	"github.com/idraxiom/contact-relay/internal/email"
)

type stubTransport struct {
	name      string
	verifyErr error
	sendErr   error

	mu       sync.Mutex
	verifies int
	sent     []email.Message
}

func (s *stubTransport) Name() string { return s.name }

func (s *stubTransport) Verify(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifies++
	return s.verifyErr
}

func (s *stubTransport) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SMTP.From = "contact@idraxiom.com"
	cfg.SMTP.FromName = "Idraxiom Website"
	cfg.SMTP.To = "contact@idraxiom.com"
	cfg.SMTP.Primary = config.SMTPProfile{Host: "smtp.zoho.sa", Port: 465, TLS: "ssl"}
	cfg.SMTP.Fallback = config.SMTPProfile{Host: "smtp.zoho.com", Port: 587, TLS: "starttls"}
	cfg.Cache.Kind = "memory"
	cfg.Rate.Enabled = false
	return cfg
}

func newHandler(t *testing.T, cfg *config.Config, transports ...email.Transport) http.Handler {
	t.Helper()
	relay, err := email.NewRelay(email.RelayConfig{
		From: email.Address{Name: cfg.SMTP.FromName, Email: cfg.SMTP.From},
		To:   cfg.SMTP.To,
	}, transports...)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	h, cleanup, err := buildHandler(context.Background(), cfg, relay, reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return h
}

func postContact(h http.Handler, body string) *httptest.ResponseRecorder {
	return postContactFrom(h, body, "203.0.113.7:5555", "")
}

func postContactFrom(h http.Handler, body, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

const validBody = `{"name":"Ali","email":"ali@example.com","message":"Hello"}`

func TestContact_DeliveredViaPrimary(t *testing.T) {
	primary := &stubTransport{name: "primary"}
	fallback := &stubTransport{name: "fallback"}
	h := newHandler(t, testConfig(), primary, fallback)

	rec := postContact(h, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Email sent successfully", body["message"])

	require.Len(t, primary.sent, 1)
	assert.Zero(t, fallback.verifies)
	msg := primary.sent[0]
	assert.Equal(t, "New message from Ali", msg.Subject)
	assert.Equal(t, "ali@example.com", msg.ReplyTo)
	assert.Equal(t, "contact@idraxiom.com", msg.To)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestContact_FallbackUsedWhenPrimaryDown(t *testing.T) {
	primary := &stubTransport{name: "primary", verifyErr: errors.New("dial tcp: i/o timeout")}
	fallback := &stubTransport{name: "fallback"}
	h := newHandler(t, testConfig(), primary, fallback)

	rec := postContact(h, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, primary.sent)
	assert.Len(t, fallback.sent, 1)
}

func TestContact_MissingFields(t *testing.T) {
	primary := &stubTransport{name: "primary"}
	h := newHandler(t, testConfig(), primary)

	for _, body := range []string{
		`{"name":"","email":"x@y.z","message":"m"}`,
		`{"email":"x@y.z","message":"m"}`,
		`{"name":"A","email":"x@y.z","message":"   "}`,
		`{}`,
	} {
		rec := postContact(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		res := decode(t, rec)
		assert.Equal(t, false, res["success"])
		assert.Equal(t, "MISSING_FIELDS", res["code"])
		assert.Equal(t, "Missing required fields", res["message"])
	}
	assert.Zero(t, primary.verifies, "no network activity on invalid input")
}

func TestContact_InvalidJSON(t *testing.T) {
	primary := &stubTransport{name: "primary"}
	h := newHandler(t, testConfig(), primary)

	rec := postContact(h, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decode(t, rec)["code"])
	assert.Zero(t, primary.verifies)
}

func TestContact_BothTransportsUnavailable(t *testing.T) {
	primary := &stubTransport{name: "primary", verifyErr: errors.New("535 auth failed")}
	fallback := &stubTransport{name: "fallback", verifyErr: errors.New("connection refused")}
	h := newHandler(t, testConfig(), primary, fallback)

	rec := postContact(h, validBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "MAIL_TRANSPORT_UNAVAILABLE", body["code"])
	assert.Equal(t, "Failed to send email", body["message"])
	assert.NotContains(t, rec.Body.String(), "535")
}

func TestContact_SendFailed(t *testing.T) {
	primary := &stubTransport{name: "primary", sendErr: errors.New("554 rejected")}
	fallback := &stubTransport{name: "fallback"}
	h := newHandler(t, testConfig(), primary, fallback)

	rec := postContact(h, validBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "MAIL_SEND_FAILED", body["code"])
	assert.Equal(t, "Failed to send email", body["message"])
	assert.Zero(t, fallback.verifies, "send failure never retries on fallback")
}

func TestContact_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, testConfig(), &stubTransport{name: "primary"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec)["code"])
}

func TestReadyz_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, testConfig(), &stubTransport{name: "primary"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/readyz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec)["code"])
}

func TestContact_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.Limit = 2
	cfg.Rate.Window = time.Hour

	primary := &stubTransport{name: "primary"}
	h := newHandler(t, cfg, primary)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, postContact(h, validBody).Code)
	}
	rec := postContact(h, validBody)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode(t, rec)["code"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Len(t, primary.sent, 2, "rate limited request never reaches the relay")
}

func TestContact_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.Limit = 2
	cfg.Rate.Window = time.Hour

	primary := &stubTransport{name: "primary"}
	h := newHandler(t, cfg, primary)

	for i, spoof := range []string{"198.51.100.1", "198.51.100.2"} {
		require.Equal(t, http.StatusOK, postContactFrom(h, validBody, "203.0.113.7:5555", spoof).Code, i)
	}
	rec := postContactFrom(h, validBody, "203.0.113.7:5555", "198.51.100.3")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, primary.sent, 2)
}

func TestContact_RateLimitBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.Limit = 1
	cfg.Rate.Window = time.Hour
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}

	primary := &stubTransport{name: "primary"}
	h := newHandler(t, cfg, primary)

	// mismo proxy, clientes distintos: cada uno tiene su propio contador
	require.Equal(t, http.StatusOK, postContactFrom(h, validBody, "10.0.0.2:443", "198.51.100.1").Code)
	require.Equal(t, http.StatusOK, postContactFrom(h, validBody, "10.0.0.2:443", "198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, postContactFrom(h, validBody, "10.0.0.2:443", "198.51.100.1").Code)
	assert.Len(t, primary.sent, 2)
}

func TestBuildHandler_RejectsBadTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Server.TrustedProxies = []string{"lb.internal"}

	reg := prometheus.NewRegistry()
	_, _, err := buildHandler(context.Background(), cfg, &stubDeliverer{}, reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trusted proxies")
}

type stubDeliverer struct{}

func (stubDeliverer) Deliver(context.Context, email.Submission) error { return nil }

func TestReadyz_DoesNotDialSMTP(t *testing.T) {
	primary := &stubTransport{name: "primary"}
	h := newHandler(t, testConfig(), primary)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ready", body["status"])
	assert.Len(t, body["mail_profiles"], 2)
	assert.Zero(t, primary.verifies)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler(t, testConfig(), &stubTransport{name: "primary"})
	postContact(h, validBody)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="/api/contact",status="200"}`)
	assert.Contains(t, rec.Body.String(), "contact_submissions_total")
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSAllowedOrigins = []string{"https://idraxiom.com/"}
	h := newHandler(t, cfg, &stubTransport{name: "primary"})

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://idraxiom.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://idraxiom.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)
}

func TestUnknownRoute(t *testing.T) {
	h := newHandler(t, testConfig(), &stubTransport{name: "primary"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode(t, rec)["code"])
}

func TestProfilesOrder(t *testing.T) {
	cfg := testConfig()
	cfg.SMTP.Primary.TLS = "SSL"
	p := Profiles(cfg)

	require.Len(t, p, 2)
	assert.Equal(t, "primary", p[0].Name)
	assert.Equal(t, email.TLSModeSSL, p[0].TLSMode)
	assert.Equal(t, "fallback", p[1].Name)
	assert.Equal(t, 587, p[1].Port)
}
