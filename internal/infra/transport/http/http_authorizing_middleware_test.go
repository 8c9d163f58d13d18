package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	"github.com/mkrupp/userapi/internal/infra/logging"
	transport "github.com/mkrupp/userapi/internal/infra/transport/http"
)

var errBadToken = errors.New("bad token")

type fakeVerifier struct {
	valid string
	claim domain.SessionClaim
}

func (v fakeVerifier) VerifyToken(_ context.Context, token string) (domain.SessionClaim, error) {
	if token != v.valid {
		return domain.SessionClaim{}, errBadToken
	}

	return v.claim, nil
}

func gatedHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true

		claim, ok := context_.SessionClaimFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(42), claim.AccountID)

		w.WriteHeader(http.StatusNoContent)
	})

	verifier := fakeVerifier{valid: "good", claim: domain.SessionClaim{AccountID: 42}}

	return transport.AuthorizingMiddleware(next, verifier, logging.NewNopLogger()), &reached
}

func TestAuthorizingMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantKind   domain.ErrorKind
		wantNext   bool
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantKind: domain.KindUnauthenticated},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, wantKind: domain.KindUnauthenticated},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantKind: domain.KindUnauthenticated},
		{name: "rejected token", header: "Bearer garbage", wantStatus: http.StatusForbidden, wantKind: domain.KindForbidden},
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusNoContent, wantNext: true},
		{name: "scheme case insensitive", header: "bearer good", wantStatus: http.StatusNoContent, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, reached := gatedHandler(t)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(transport.AuthorizationHeader, tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, *reached)

			if tt.wantKind != "" {
				var body domain.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantKind, body.Kind)
			}
		})
	}
}
