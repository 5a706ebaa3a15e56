package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idraxiom/contact-relay/internal/email"
	dto "github.com/idraxiom/contact-relay/internal/http/dto/contact"
)

type stubService struct {
	err   error
	calls []dto.ContactRequest
}

func (s *stubService) Submit(_ context.Context, req dto.ContactRequest) error {
	s.calls = append(s.calls, req)
	return s.err
}

func serve(c *ContactController, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Submit(rec, req)
	return rec
}

func TestSubmit_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"ok", nil, http.StatusOK, `{"success":true,"message":"Email sent successfully"}`},
		{"invalid", fmt.Errorf("%w: missing name", email.ErrInvalidInput), http.StatusBadRequest, `"code":"MISSING_FIELDS"`},
		{"unavailable", fmt.Errorf("%w: %w", email.ErrTransportUnavailable, errors.New("x")), http.StatusInternalServerError, `"code":"MAIL_TRANSPORT_UNAVAILABLE"`},
		{"send failed", fmt.Errorf("%w: %w", email.ErrSendFailed, errors.New("x")), http.StatusInternalServerError, `"code":"MAIL_SEND_FAILED"`},
		{"unexpected", errors.New("x"), http.StatusInternalServerError, `"code":"INTERNAL_SERVER_ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			rec := serve(NewContactController(svc), http.MethodPost, `{"name":"Ali","email":"ali@example.com","message":"Hi"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Len(t, svc.calls, 1)
			assert.Equal(t, "Ali", svc.calls[0].Name)
		})
	}
}

func TestSubmit_WrongFieldTypes(t *testing.T) {
	svc := &stubService{}
	rec := serve(NewContactController(svc), http.MethodPost, `{"name":42,"email":"a@b.c","message":"m"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
	assert.Empty(t, svc.calls)
}
