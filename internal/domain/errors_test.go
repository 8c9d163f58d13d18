package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/userapi/internal/domain"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: domain.NewValidationError(errors.New("email: cannot be blank")), want: domain.KindValidation},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", domain.ErrAccountNotFound), want: domain.KindNotFound},
		{name: "joined conflict", err: errors.Join(domain.ErrAccountAlreadyExists, errors.New("UNIQUE")), want: domain.KindConflict},
		{name: "invalid credentials", err: domain.ErrInvalidCredentials, want: domain.KindInvalidCredentials},
		{name: "no token", err: domain.ErrNoAuthToken, want: domain.KindUnauthenticated},
		{name: "invalid token", err: fmt.Errorf("%w: expired", domain.ErrInvalidAuthToken), want: domain.KindForbidden},
		{name: "unknown", err: errors.New("disk full"), want: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestNewValidationError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, domain.NewValidationError(nil))

	err := domain.NewValidationError(errors.New("email: cannot be blank"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "email: cannot be blank", err.Error())
}

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	resp := domain.NewErrorResponse(fmt.Errorf("signup: %w", domain.NewValidationError(errors.New("password: cannot be blank"))))
	assert.Equal(t, domain.ErrorResponse{Kind: domain.KindValidation, Message: "password: cannot be blank"}, resp)

	resp = domain.NewErrorResponse(fmt.Errorf("get account: %w", errors.Join(domain.ErrAccountNotFound, errors.New("sql: no rows"))))
	assert.Equal(t, domain.ErrorResponse{Kind: domain.KindNotFound, Message: "account not found"}, resp)

	resp = domain.NewErrorResponse(errors.New("connection refused"))
	assert.Equal(t, domain.ErrorResponse{Kind: domain.KindInternal, Message: "internal error"}, resp)
}
