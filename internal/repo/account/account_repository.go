package account

import (
	"context"

	"github.com/mkrupp/userapi/internal/domain"
)

// Repository defines the interface for account persistence.
type Repository interface {
	// CreateAccount stores a new account and fills in its ID and CreatedAt.
	// Returns ErrAccountAlreadyExists if the email is already taken.
	CreateAccount(ctx context.Context, account *domain.Account) error

	// GetAccountByID retrieves an account by its ID.
	// Returns ErrAccountNotFound if there is none.
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)

	// GetAccountByEmail retrieves an account by its exact email.
	// Returns ErrAccountNotFound if there is none.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindAccounts returns the accounts matching every non-empty field of the filter,
	// ordered by ID. An empty result is not an error.
	FindAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// UpdateAccount applies the non-nil fields of update and returns the stored result.
	// Returns ErrAccountNotFound or ErrAccountAlreadyExists.
	UpdateAccount(ctx context.Context, id int64, update domain.AccountUpdate) (*domain.Account, error)

	// DeleteAccount removes an account and returns it as it was before deletion.
	// Returns ErrAccountNotFound if there is none.
	DeleteAccount(ctx context.Context, id int64) (*domain.Account, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
