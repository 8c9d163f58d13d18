package accountsvc

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mkrupp/userapi/internal/domain"
)

const (
	maxEmailLength    = 254
	maxNameLength     = 255
	maxUsernameLength = 64
	maxFilterLength   = 255

	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

var errPasswordTooLong = errors.New("must be no more than 72 bytes long")

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Validate checks the request shape.
func (r SignupRequest) Validate() error {
	return domain.NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(0, maxEmailLength), is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(passwordBytes)),
		validation.Field(&r.Name, validation.Length(0, maxNameLength)),
		validation.Field(&r.Username, validation.Length(0, maxUsernameLength)),
	))
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request shape.
func (r LoginRequest) Validate() error {
	return domain.NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(0, maxEmailLength), is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(passwordBytes)),
	))
}

// FindAccountsRequest carries the query parameters of GET /user.
type FindAccountsRequest struct {
	NameHas     string `json:"nameHas"`
	EmailHas    string `json:"emailHas"`
	UserNameHas string `json:"userNameHas"`
}

// Validate checks the request shape.
func (r FindAccountsRequest) Validate() error {
	return domain.NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.NameHas, validation.Length(0, maxFilterLength)),
		validation.Field(&r.EmailHas, validation.Length(0, maxFilterLength)),
		validation.Field(&r.UserNameHas, validation.Length(0, maxFilterLength)),
	))
}

// Filter converts the request to a repository filter.
func (r FindAccountsRequest) Filter() domain.AccountFilter {
	return domain.AccountFilter{
		NameHas:     r.NameHas,
		EmailHas:    r.EmailHas,
		UsernameHas: r.UserNameHas,
	}
}

// UpdateAccountRequest is the body of PATCH /user/{id}. Absent fields stay unchanged.
type UpdateAccountRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Validate checks the request shape.
func (r UpdateAccountRequest) Validate() error {
	return domain.NewValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, maxNameLength)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(0, maxEmailLength), is.Email),
	))
}

// Update converts the request to a repository update.
func (r UpdateAccountRequest) Update() domain.AccountUpdate {
	return domain.AccountUpdate{
		Name:  r.Name,
		Email: r.Email,
	}
}

func passwordBytes(value any) error {
	s, _ := value.(string)
	if len(s) > maxPasswordBytes {
		return errPasswordTooLong
	}

	return nil
}
