// Package health contiene DTOs para endpoints de health check.
package health

import "time"

// HealthStatus representa el estado de un componente específico.
type HealthStatus struct {
	Status  string `json:"status"`            // "ok" | "error" | "disabled"
	Message string `json:"message,omitempty"` // Detalle opcional
}

// MailProfile describe un transport configurado. No se verifica desde /readyz.
type MailProfile struct {
	Name    string `json:"name"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	TLSMode string `json:"tls_mode"`
}

// HealthResponse representa la respuesta de salud completa.
type HealthResponse struct {
	Status       string                  `json:"status"` // "ready" | "degraded" | "unavailable"
	Components   map[string]HealthStatus `json:"components"`
	MailProfiles []MailProfile           `json:"mail_profiles"`
	Version      string                  `json:"version,omitempty"`
	Commit       string                  `json:"commit,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
}
