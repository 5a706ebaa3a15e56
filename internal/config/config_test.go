package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "smtp.zoho.sa", c.SMTP.Primary.Host)
	assert.Equal(t, 465, c.SMTP.Primary.Port)
	assert.Equal(t, "ssl", c.SMTP.Primary.TLS)
	assert.Equal(t, "smtp.zoho.com", c.SMTP.Fallback.Host)
	assert.Equal(t, 587, c.SMTP.Fallback.Port)
	assert.Equal(t, "starttls", c.SMTP.Fallback.TLS)
	assert.Equal(t, "contact@idraxiom.com", c.SMTP.From)
	assert.Equal(t, "Idraxiom Website", c.SMTP.FromName)
	assert.Equal(t, "contact@idraxiom.com", c.SMTP.To)
	assert.True(t, c.Rate.Enabled)
	assert.Equal(t, "memory", c.Cache.Kind)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	p := writeYAML(t, `
app:
  env: prod
server:
  addr: ":9090"
smtp:
  timeout: 5s
  primary:
    host: mail.example.com
    port: 2465
rate:
  limit: 3
  window: 30s
`)
	t.Setenv("SMTP_PRIMARY_PORT", "3465")
	t.Setenv("ZOHO_APP_PASSWORD", "alias-secret")

	c, err := Load(p)
	require.NoError(t, err)

	assert.True(t, c.IsProd())
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "mail.example.com", c.SMTP.Primary.Host)
	assert.Equal(t, 3465, c.SMTP.Primary.Port)
	assert.Equal(t, 5*time.Second, c.SMTP.Timeout)
	assert.Equal(t, 3, c.Rate.Limit)
	assert.Equal(t, 30*time.Second, c.Rate.Window)
	assert.Equal(t, "alias-secret", c.SMTP.Password)
}

func TestLoad_PasswordPrecedence(t *testing.T) {
	t.Setenv("ZOHO_APP_PASSWORD", "alias")
	t.Setenv("SMTP_PASSWORD", "primary")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "primary", c.SMTP.Password)
}

func TestLoad_PasswordIgnoredInYAML(t *testing.T) {
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("ZOHO_APP_PASSWORD", "")
	p := writeYAML(t, "smtp:\n  password: leaked\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Empty(t, c.SMTP.Password)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("tls mode", func(t *testing.T) {
		_, err := Load(writeYAML(t, "smtp:\n  fallback:\n    tls: quantum\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.fallback.tls")
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("SMTP_PRIMARY_PORT", "70000")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.primary.port")
	})
	t.Run("cache kind", func(t *testing.T) {
		t.Setenv("CACHE_KIND", "memcached")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("trusted proxy", func(t *testing.T) {
		_, err := Load(writeYAML(t, "server:\n  trusted_proxies: [\"10.0.0.0/8\", \"lb.internal\"]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.trusted_proxies")
	})
	t.Run("yaml syntax", func(t *testing.T) {
		_, err := Load(writeYAML(t, "smtp: [\n"))
		require.Error(t, err)
	})
}

func TestGetEnvCSV(t *testing.T) {
	t.Setenv("X_CSV", " https://a.com, ,https://b.com ")
	v, ok := getEnvCSV("X_CSV")
	assert.True(t, ok)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, v)

	_, ok = getEnvCSV("X_CSV_UNSET")
	assert.False(t, ok)
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := Load(writeYAML(t, "server:\n  trusted_proxies: [\"10.0.0.0/8\", \"192.168.1.5\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.5"}, cfg.Server.TrustedProxies)

	t.Setenv("SERVER_TRUSTED_PROXIES", "172.16.0.0/12")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"172.16.0.0/12"}, cfg.Server.TrustedProxies)
}
