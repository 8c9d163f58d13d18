package accountclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	http_ "github.com/mkrupp/userapi/internal/infra/transport/http"
	"github.com/mkrupp/userapi/internal/svc/accountsvc/accountclient"
)

func TestHTTPClient_VerifyToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "trace-9", r.Header.Get(http_.TraceIDHeader))

		switch r.Header.Get(http_.AuthorizationHeader) {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":42,"email":"a@x.io","createdAt":1}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	t.Cleanup(server.Close)

	client := accountclient.NewHTTPClient(accountclient.HTTPClientConfig{MeURL: server.URL + "/me"}, server.Client())
	ctx := context_.WithTraceID(context.Background(), "trace-9")

	claim, err := client.VerifyToken(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionClaim{AccountID: 42}, claim)

	_, err = client.VerifyToken(ctx, "bad")
	require.ErrorIs(t, err, domain.ErrInvalidAuthToken)

	_, err = client.VerifyToken(ctx, "broken")
	require.ErrorIs(t, err, accountclient.ErrUnexpectedStatus)
	assert.NotErrorIs(t, err, domain.ErrInvalidAuthToken)
}
