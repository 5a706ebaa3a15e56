package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrMissingFields)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "MISSING_FIELDS", body["code"])
	assert.Equal(t, "Missing required fields", body["message"])
	assert.NotContains(t, body, "detail")
}

func TestWriteError_DoesNotLeakCause(t *testing.T) {
	cause := stderrors.New("535 5.7.8 authentication failed for contact@idraxiom.com")
	rec := httptest.NewRecorder()
	WriteError(rec, ErrMailSendFailed.WithCause(cause))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "535")
	assert.Contains(t, rec.Body.String(), `"message":"Failed to send email"`)
}

func TestWriteError_GenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestFromError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("controller: %w", ErrRateLimitExceeded)
	assert.Same(t, ErrRateLimitExceeded, FromError(wrapped))
}

func TestWithCauseCopies(t *testing.T) {
	cause := stderrors.New("x")
	e := ErrMailTransportUnavailable.WithCause(cause)

	assert.NotSame(t, ErrMailTransportUnavailable, e)
	assert.Nil(t, ErrMailTransportUnavailable.Err)
	assert.ErrorIs(t, e, cause)
}
