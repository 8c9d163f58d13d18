package accountsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/userapi/internal/domain"
)

type sessionClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. A ttl of zero issues tokens without expiry.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a token carrying the claim.
func (ti *TokenIssuer) IssueToken(claim domain.SessionClaim) (string, error) {
	now := ti.now()

	claims := sessionClaims{
		UserID: claim.AccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	if ti.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks the signature, algorithm and expiry of token and returns its claim.
// Every failure is reported as domain.ErrInvalidAuthToken.
func (ti *TokenIssuer) VerifyToken(_ context.Context, token string) (domain.SessionClaim, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return domain.SessionClaim{}, fmt.Errorf("%w: %w", domain.ErrInvalidAuthToken, err)
	}

	if claims.UserID == 0 {
		return domain.SessionClaim{}, fmt.Errorf("%w: missing userId", domain.ErrInvalidAuthToken)
	}

	return domain.SessionClaim{AccountID: claims.UserID}, nil
}
