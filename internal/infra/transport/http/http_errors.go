package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkrupp/userapi/internal/domain"
	"github.com/mkrupp/userapi/internal/infra/logging"
)

//nolint:gochecknoglobals
var kindToStatus = map[domain.ErrorKind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindConflict:           http.StatusConflict,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindForbidden:          http.StatusForbidden,
	domain.KindInternal:           http.StatusInternalServerError,
}

// StatusCode returns the HTTP status for an error kind.
func StatusCode(kind domain.ErrorKind) int {
	if status, ok := kindToStatus[kind]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// WriteError answers the request with the status and {kind, message} body for err.
func WriteError(ctx context.Context, w http.ResponseWriter, err error, log logging.Logger) {
	resp := domain.NewErrorResponse(err)

	if resp.Kind == domain.KindInternal {
		log.ErrorContext(ctx, "internal error", "error", err)
	}

	WriteJSON(ctx, w, StatusCode(resp.Kind), resp, log)
}

// WriteJSON answers the request with status and v encoded as JSON.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, v any, log logging.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorContext(ctx, "encode response failed", "error", err)
	}
}
