package domain

import (
	"errors"
)

// ErrValidation is the sentinel matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a request whose shape is invalid.
// It is produced before any business logic runs.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ErrValidation.Error()
	}

	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrValidation) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError wraps err as a ValidationError. A nil err yields nil.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}

	return &ValidationError{Err: err}
}

// ErrorKind is the stable, client-visible category of an error.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation_error"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindForbidden          ErrorKind = "forbidden"
	KindInternal           ErrorKind = "internal"
)

// KindOf classifies err. Anything unrecognized is KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrNoAuthToken):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidAuthToken):
		return KindForbidden
	default:
		return KindInternal
	}
}

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewErrorResponse builds the client-facing body for err.
// Internal errors never expose their cause.
func NewErrorResponse(err error) ErrorResponse {
	kind := KindOf(err)

	var msg string

	switch kind {
	case KindValidation:
		var verr *ValidationError
		if errors.As(err, &verr) {
			msg = verr.Error()
		} else {
			msg = ErrValidation.Error()
		}
	case KindNotFound:
		msg = ErrAccountNotFound.Error()
	case KindConflict:
		msg = ErrAccountAlreadyExists.Error()
	case KindInvalidCredentials:
		msg = ErrInvalidCredentials.Error()
	case KindUnauthenticated:
		msg = ErrNoAuthToken.Error()
	case KindForbidden:
		msg = ErrInvalidAuthToken.Error()
	default:
		msg = "internal error"
	}

	return ErrorResponse{Kind: kind, Message: msg}
}
