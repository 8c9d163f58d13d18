// Package accountclient lets other services check session tokens against a
// running account service instead of sharing its signing secret.
package accountclient

import (
	"context"

	"github.com/mkrupp/userapi/internal/domain"
)

// AccountClient defines the interface for resolving session tokens remotely.
type AccountClient interface {
	// VerifyToken asks the account service who the token belongs to.
	// A token the service rejects yields domain.ErrInvalidAuthToken.
	VerifyToken(ctx context.Context, token string) (domain.SessionClaim, error)
}
