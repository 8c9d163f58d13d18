package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	"github.com/mkrupp/userapi/internal/infra/logging"
)

// AuthorizationHeader is the request header carrying the bearer token.
const AuthorizationHeader = "Authorization"

const bearerScheme = "bearer"

// TokenVerifier checks a signed session token.
type TokenVerifier interface {
	// VerifyToken returns the decoded claim of a valid token.
	// Any rejected token yields an error matching domain.ErrInvalidAuthToken.
	VerifyToken(ctx context.Context, token string) (domain.SessionClaim, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// A missing header, another scheme or an empty token yield domain.ErrNoAuthToken.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
	if header == "" {
		return "", domain.ErrNoAuthToken
	}

	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, bearerScheme) {
		return "", fmt.Errorf("%w: unsupported scheme %q", domain.ErrNoAuthToken, scheme)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrNoAuthToken
	}

	return token, nil
}

// AuthorizingMiddleware creates middleware that only lets requests with a valid
// bearer token through. Requests without a token are answered with 401, requests
// whose token the verifier rejects with 403. On success the decoded claim is
// attached to the request context and the next handler runs.
func AuthorizingMiddleware(
	next http.Handler,
	verifier TokenVerifier,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := BearerToken(r)
		if err != nil {
			log.WarnContext(ctx, "no token provided", "error", err)
			WriteError(ctx, w, err, log)

			return
		}

		claim, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			log.WarnContext(ctx, "invalid token", "error", err)
			WriteError(ctx, w, fmt.Errorf("%w: %w", domain.ErrInvalidAuthToken, err), log)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithSessionClaim(ctx, claim)))
	})
}
