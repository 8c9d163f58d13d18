package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/domain"
	"github.com/mkrupp/userapi/internal/infra/logging"
	transport "github.com/mkrupp/userapi/internal/infra/transport/http"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, transport.StatusCode(domain.KindValidation))
	assert.Equal(t, http.StatusNotFound, transport.StatusCode(domain.KindNotFound))
	assert.Equal(t, http.StatusConflict, transport.StatusCode(domain.KindConflict))
	assert.Equal(t, http.StatusUnauthorized, transport.StatusCode(domain.KindInvalidCredentials))
	assert.Equal(t, http.StatusUnauthorized, transport.StatusCode(domain.KindUnauthenticated))
	assert.Equal(t, http.StatusForbidden, transport.StatusCode(domain.KindForbidden))
	assert.Equal(t, http.StatusInternalServerError, transport.StatusCode(domain.KindInternal))
	assert.Equal(t, http.StatusInternalServerError, transport.StatusCode("unknown"))
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	transport.WriteError(context.Background(), rec,
		fmt.Errorf("query: %w", errors.New("disk on fire")), logging.NewNopLogger()) //nolint:err113

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.KindInternal, body.Kind)
	assert.NotContains(t, body.Message, "disk on fire")
}

func TestRescueingMiddleware(t *testing.T) {
	t.Parallel()

	handler := transport.RescueingMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), logging.NewNopLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.KindInternal, body.Kind)
}

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	handler := transport.TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(transport.TraceIDHeader, "abc")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(transport.TraceIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(transport.TraceIDHeader), 36)
}
