package domain

import "errors"

var (
	// ErrAccountAlreadyExists is returned when trying to create an account with an email that is taken.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountNotFound is returned when looking up a non-existent account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials is returned when the email/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account represents a user record.
type Account struct {
	ID           int64  `json:"id"`                 // Unique identifier
	Email        string `json:"email"`              // Unique login email
	Name         string `json:"name,omitempty"`     // Optional display name
	Username     string `json:"username,omitempty"` // Optional username
	PasswordHash string `json:"-"`                  // bcrypt hash, never plaintext
	CreatedAt    int64  `json:"createdAt"`          // Unix timestamp of account creation
}

// AccountFilter selects accounts by substring. Empty fields match everything.
type AccountFilter struct {
	NameHas     string
	EmailHas    string
	UsernameHas string
}

// AccountUpdate carries the mutable fields of an account. Nil fields are left unchanged.
type AccountUpdate struct {
	Name  *string
	Email *string
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil
}
