package domain

import "errors"

var (
	// ErrNoAuthToken is returned when a bearer token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token's signature is invalid, it is malformed or it has expired.
	ErrInvalidAuthToken = errors.New("invalid auth token")
)

// SessionClaim is the payload embedded in a signed session token.
type SessionClaim struct {
	AccountID int64 `json:"userId"`
}

// AuthTokenResponse represents a response containing an authentication token.
type AuthTokenResponse struct {
	Token string `json:"token"`
}
