package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idraxiom/contact-relay/internal/util"
)

type SMTPProfile struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// ssl | starttls | auto | none
	TLS string `yaml:"tls"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

		// CIDRs o IPs de proxies cuyos X-Forwarded-For se aceptan. Vacío = ninguno.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	SMTP struct {
		Username string `yaml:"username"`
		// Solo desde env (SMTP_PASSWORD / ZOHO_APP_PASSWORD)
		Password           string        `yaml:"-"`
		From               string        `yaml:"from"`
		FromName           string        `yaml:"from_name"`
		To                 string        `yaml:"to"`
		Timeout            time.Duration `yaml:"timeout"`
		InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
		Primary            SMTPProfile   `yaml:"primary"`
		Fallback           SMTPProfile   `yaml:"fallback"`
	} `yaml:"smtp"`

	Rate struct {
		Enabled bool          `yaml:"enabled"`
		Limit   int           `yaml:"limit"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate"`

	Cache struct {
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load lee el YAML (si existe), aplica defaults, env y valida.
func Load(path string) (*Config, error) {
	var c Config
	c.Rate.Enabled = true

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: defaults + env
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.SMTP.Username == "" {
		c.SMTP.Username = "contact@idraxiom.com"
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = "Idraxiom Website"
	}
	if c.SMTP.To == "" {
		c.SMTP.To = "contact@idraxiom.com"
	}
	if c.SMTP.Primary.Host == "" {
		c.SMTP.Primary.Host = "smtp.zoho.sa"
	}
	if c.SMTP.Primary.Port == 0 {
		c.SMTP.Primary.Port = 465
	}
	if c.SMTP.Primary.TLS == "" {
		c.SMTP.Primary.TLS = "ssl"
	}
	if c.SMTP.Fallback.Host == "" {
		c.SMTP.Fallback.Host = "smtp.zoho.com"
	}
	if c.SMTP.Fallback.Port == 0 {
		c.SMTP.Fallback.Port = 587
	}
	if c.SMTP.Fallback.TLS == "" {
		c.SMTP.Fallback.TLS = "starttls"
	}
	if c.Rate.Limit == 0 {
		c.Rate.Limit = 5
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = 10 * time.Minute
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "contact:rl:"
	}
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

func (c *Config) applyEnvOverrides() {
	// App
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}

	// Server
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// Log
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("ZOHO_APP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	// SMTP_PASSWORD gana sobre el alias
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_FROM_NAME"); ok {
		c.SMTP.FromName = v
	}
	if v, ok := getEnvStr("SMTP_TO"); ok {
		c.SMTP.To = v
	}
	if v, ok := getEnvDur("SMTP_TIMEOUT"); ok {
		c.SMTP.Timeout = v
	}
	if v, ok := getEnvBool("SMTP_INSECURE_SKIP_VERIFY"); ok {
		c.SMTP.InsecureSkipVerify = v
	}
	if v, ok := getEnvStr("SMTP_PRIMARY_HOST"); ok {
		c.SMTP.Primary.Host = v
	}
	if v, ok := getEnvInt("SMTP_PRIMARY_PORT"); ok {
		c.SMTP.Primary.Port = v
	}
	if v, ok := getEnvStr("SMTP_PRIMARY_TLS"); ok {
		c.SMTP.Primary.TLS = v
	}
	if v, ok := getEnvStr("SMTP_FALLBACK_HOST"); ok {
		c.SMTP.Fallback.Host = v
	}
	if v, ok := getEnvInt("SMTP_FALLBACK_PORT"); ok {
		c.SMTP.Fallback.Port = v
	}
	if v, ok := getEnvStr("SMTP_FALLBACK_TLS"); ok {
		c.SMTP.Fallback.TLS = v
	}

	// Rate
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT"); ok {
		c.Rate.Limit = v
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}

	// Cache
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
}

func validTLS(mode string) bool {
	switch strings.ToLower(mode) {
	case "ssl", "starttls", "auto", "none":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	var errs []error
	for name, p := range map[string]SMTPProfile{"primary": c.SMTP.Primary, "fallback": c.SMTP.Fallback} {
		if strings.TrimSpace(p.Host) == "" {
			errs = append(errs, fmt.Errorf("smtp.%s.host is required", name))
		}
		if p.Port <= 0 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("smtp.%s.port out of range: %d", name, p.Port))
		}
		if !validTLS(p.TLS) {
			errs = append(errs, fmt.Errorf("smtp.%s.tls invalid: %q", name, p.TLS))
		}
	}
	if !strings.Contains(c.SMTP.From, "@") {
		errs = append(errs, fmt.Errorf("smtp.from invalid: %q", c.SMTP.From))
	}
	if !strings.Contains(c.SMTP.To, "@") {
		errs = append(errs, fmt.Errorf("smtp.to invalid: %q", c.SMTP.To))
	}
	for _, p := range c.Server.TrustedProxies {
		if _, err := util.ParsePrefix(p); err != nil {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %w", err))
		}
	}
	if c.SMTP.Timeout < 0 {
		errs = append(errs, errors.New("smtp.timeout must be >= 0"))
	}
	if c.Rate.Enabled && (c.Rate.Limit <= 0 || c.Rate.Window <= 0) {
		errs = append(errs, errors.New("rate.limit and rate.window must be positive"))
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.kind invalid: %q", c.Cache.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProd: prod | production
func (c *Config) IsProd() bool {
	e := strings.ToLower(c.App.Env)
	return e == "prod" || e == "production"
}
