package accountsvc_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/domain"
	"github.com/mkrupp/userapi/internal/svc/accountsvc"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := accountsvc.NewTokenIssuer([]byte("secret"), 0)

	token, err := issuer.IssueToken(domain.SessionClaim{AccountID: 42})
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claim, err := issuer.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claim.AccountID)

	raw := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, raw)
	require.NoError(t, err)
	assert.InDelta(t, float64(42), raw["userId"], 0)
	assert.Contains(t, raw, "iat")
	assert.NotContains(t, raw, "exp")
}

func TestTokenIssuer_Rejects(t *testing.T) {
	t.Parallel()

	issuer := accountsvc.NewTokenIssuer([]byte("secret"), 0)

	valid, err := issuer.IssueToken(domain.SessionClaim{AccountID: 1})
	require.NoError(t, err)

	otherSecret, err := accountsvc.NewTokenIssuer([]byte("other"), 0).IssueToken(domain.SessionClaim{AccountID: 1})
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1,
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	withTTL := accountsvc.NewTokenIssuer([]byte("secret"), time.Hour)

	fresh, err := withTTL.IssueToken(domain.SessionClaim{AccountID: 1})
	require.NoError(t, err)

	noUser, err := issuer.IssueToken(domain.SessionClaim{})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	dot := strings.LastIndex(valid, ".")
	sig := []byte(valid[dot+1:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}

	tampered := valid[:dot+1] + string(sig)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "garbage"},
		{name: "tampered signature", token: tampered},
		{name: "wrong secret", token: otherSecret},
		{name: "none algorithm", token: none},
		{name: "missing user id", token: noUser},
		{name: "expired", token: expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := issuer.VerifyToken(context.Background(), tt.token)
			require.ErrorIs(t, err, domain.ErrInvalidAuthToken)
		})
	}

	t.Run("unexpired with ttl", func(t *testing.T) {
		t.Parallel()

		claim, err := withTTL.VerifyToken(context.Background(), fresh)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claim.AccountID)
	})
}
