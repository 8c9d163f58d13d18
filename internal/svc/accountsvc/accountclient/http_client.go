package accountclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	"github.com/mkrupp/userapi/internal/infra/logging"
	http_ "github.com/mkrupp/userapi/internal/infra/transport/http"
)

// ErrUnexpectedStatus is returned when the account service answers with a status
// that says nothing about the token.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPClientConfig holds configuration for the HTTP account client.
type HTTPClientConfig struct {
	// MeURL is the endpoint returning the account of a bearer token
	MeURL string `env:"ME_URL" default:"http://localhost:3000/me"`
}

// HTTPClient implements AccountClient using HTTP requests to GET /me.
type HTTPClient struct {
	httpClient *http.Client
	log        logging.Logger
	cfg        HTTPClientConfig
}

var (
	_ AccountClient       = (*HTTPClient)(nil)
	_ http_.TokenVerifier = (*HTTPClient)(nil)
)

// NewHTTPClient creates a new HTTPClient with the given configuration.
// If httpClient is nil, http.DefaultClient will be used.
func NewHTTPClient(
	cfg HTTPClientConfig,
	httpClient *http.Client,
) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.accountsvc.accountclient.http_client"),
		cfg:        cfg,
	}
}

// VerifyToken implements AccountClient.VerifyToken. The token is sent as a bearer
// token and the trace ID of ctx, if any, is forwarded.
func (hc *HTTPClient) VerifyToken(ctx context.Context, token string) (domain.SessionClaim, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.cfg.MeURL, nil)
	if err != nil {
		return domain.SessionClaim{}, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set(http_.AuthorizationHeader, "Bearer "+token)

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		req.Header.Set(http_.TraceIDHeader, traceID)
	}

	resp, err := hc.httpClient.Do(req)
	if err != nil {
		return domain.SessionClaim{}, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		hc.log.DebugContext(ctx, "token rejected", "status", resp.StatusCode)

		return domain.SessionClaim{}, fmt.Errorf("%w: status %d", domain.ErrInvalidAuthToken, resp.StatusCode)
	default:
		return domain.SessionClaim{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var acc domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&acc); err != nil {
		return domain.SessionClaim{}, fmt.Errorf("decode account: %w", err)
	}

	return domain.SessionClaim{AccountID: acc.ID}, nil
}
