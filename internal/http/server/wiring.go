// Package server arma el handler HTTP con todas sus dependencias.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idraxiom/contact-relay/internal/config"
	"github.com/idraxiom/contact-relay/internal/email"
	contactctrl "github.com/idraxiom/contact-relay/internal/http/controllers/contact"
	healthctrl "github.com/idraxiom/contact-relay/internal/http/controllers/health"
	mw "github.com/idraxiom/contact-relay/internal/http/middlewares"
	"github.com/idraxiom/contact-relay/internal/http/router"
	contactsvc "github.com/idraxiom/contact-relay/internal/http/services/contact"
	healthsvc "github.com/idraxiom/contact-relay/internal/http/services/health"
	"github.com/idraxiom/contact-relay/internal/metrics"
	"github.com/idraxiom/contact-relay/internal/observability/logger"
	"github.com/idraxiom/contact-relay/internal/rate"
)

// Profiles devuelve los perfiles SMTP en orden de fallback.
func Profiles(cfg *config.Config) []email.Profile {
	return []email.Profile{
		{
			Name:    "primary",
			Host:    cfg.SMTP.Primary.Host,
			Port:    cfg.SMTP.Primary.Port,
			TLSMode: strings.ToLower(cfg.SMTP.Primary.TLS),
		},
		{
			Name:    "fallback",
			Host:    cfg.SMTP.Fallback.Host,
			Port:    cfg.SMTP.Fallback.Port,
			TLSMode: strings.ToLower(cfg.SMTP.Fallback.TLS),
		},
	}
}

// NewRelay construye el relay (primary + fallback) desde la config.
func NewRelay(cfg *config.Config) (*email.Relay, error) {
	if cfg.SMTP.Password == "" {
		logger.L().Warn("SMTP password not set (SMTP_PASSWORD / ZOHO_APP_PASSWORD); authentication will fail",
			logger.Component("wiring"))
	}

	transports := email.NewSMTPTransports(
		Profiles(cfg),
		email.Credentials{Username: cfg.SMTP.Username, Password: cfg.SMTP.Password},
		email.TransportOptions{Timeout: cfg.SMTP.Timeout, InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify},
	)

	relay, err := email.NewRelay(email.RelayConfig{
		From: email.Address{Name: cfg.SMTP.FromName, Email: cfg.SMTP.From},
		To:   cfg.SMTP.To,
	}, transports...)
	if err != nil {
		return nil, fmt.Errorf("wiring: %w", err)
	}
	return relay, nil
}

// BuildHandler construye el handler raíz y una función de cleanup.
func BuildHandler(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	return buildHandler(ctx, cfg, nil, prometheus.DefaultRegisterer, promhttp.Handler())
}

// buildHandler permite inyectar el Deliverer y el registry en tests.
func buildHandler(ctx context.Context, cfg *config.Config, relay contactsvc.Deliverer, reg prometheus.Registerer, metricsHandler http.Handler) (http.Handler, func() error, error) {
	log := logger.L().With(logger.Component("wiring"))

	if err := metrics.RegisterHTTP(reg); err != nil {
		return nil, nil, fmt.Errorf("wiring: register http metrics: %w", err)
	}
	if err := metrics.RegisterMail(reg); err != nil {
		return nil, nil, fmt.Errorf("wiring: register mail metrics: %w", err)
	}

	if relay == nil {
		r, err := NewRelay(cfg)
		if err != nil {
			return nil, nil, err
		}
		relay = r
	}

	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, nil, fmt.Errorf("wiring: trusted proxies: %w", err)
	}

	cleanup := func() error { return nil }

	// Rate limiter
	var (
		limiter    rate.Limiter
		redisCheck func(ctx context.Context) error
	)
	if cfg.Rate.Enabled {
		l, closeFn, err := rate.New(ctx, rate.Config{
			Kind:        cfg.Cache.Kind,
			Limit:       cfg.Rate.Limit,
			Window:      cfg.Rate.Window,
			RedisAddr:   cfg.Cache.Redis.Addr,
			RedisDB:     cfg.Cache.Redis.DB,
			RedisPrefix: cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("wiring: %w", err)
		}
		limiter = l
		cleanup = closeFn
		if p, ok := l.(rate.Pinger); ok {
			redisCheck = p.Ping
		}
		log.Info("rate limit enabled",
			logger.String("backend", cfg.Cache.Kind),
			logger.Int("limit", cfg.Rate.Limit),
			logger.Duration(cfg.Rate.Window),
		)
	}

	health := healthsvc.NewHealthService(healthsvc.Deps{
		RedisCheck:  redisCheck,
		Profiles:    Profiles(cfg),
		RateEnabled: cfg.Rate.Enabled,
	})

	handler := router.New(router.Deps{
		Contact:        contactctrl.NewContactController(contactsvc.NewContactService(relay)),
		Health:         healthctrl.NewHealthController(health),
		RateLimiter:    limiter,
		MetricsHandler: metricsHandler,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: proxies,
	})

	return handler, cleanup, nil
}
