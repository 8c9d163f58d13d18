package accountsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/userapi/internal/domain"
	"github.com/mkrupp/userapi/internal/infra/logging"
	"github.com/mkrupp/userapi/internal/repo/account"
)

// AccountService provides account management and authentication.
// It handles signup, login, token verification and the account CRUD operations.
type AccountService struct {
	Config      AccountConfig
	AccountRepo account.Repository
	Hasher      PasswordHasher
	Tokens      *TokenIssuer
	Log         logging.Logger
}

// NewAccountService creates a new AccountService with the given repository factory and configuration.
// Returns an error if the account repository cannot be created.
func NewAccountService(ctx context.Context, repoFactory account.RepositoryFactory, cfg AccountConfig) (*AccountService, error) {
	log := logging.GetLogger("svc.accountsvc.account_service")

	accountRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new account repo: %w", err)
	}

	secret := []byte(cfg.Secret)

	switch {
	case cfg.SecretFile != "":
		if secret, err = GetSecret(cfg.SecretFile); err != nil {
			_ = accountRepo.Close()

			return nil, fmt.Errorf("get secret: %w", err)
		}
	case cfg.InsecureSecret():
		log.WarnContext(ctx, "using the built-in token secret, set JWT_SECRET in production")

		secret = []byte(InsecureDefaultSecret)
	}

	hasher := NewBcryptHasher(cfg.HashCost, cfg.HashConcurrency)

	log.DebugContext(ctx, "account service configured", logging.Group("config",
		"hashCost", hasher.Cost(),
		"hashConcurrency", cfg.HashConcurrency,
		"tokenTTL", cfg.TokenTTL,
	))

	return &AccountService{
		Config:      cfg,
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Tokens:      NewTokenIssuer(secret, cfg.TokenTTL),
		Log:         log,
	}, nil
}

// Signup validates the request, hashes the password and stores a new account.
// Returns ErrAccountAlreadyExists if the email is taken.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "email", req.Email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "signup failed", "error", err)
		} else {
			log.DebugContext(ctx, "account created")
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := s.Hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &domain.Account{
		Email:        req.Email,
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	if err := s.AccountRepo.CreateAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	log = log.With(logging.Group("account", "id", acc.ID))

	return acc, nil
}

// Login authenticates an account by email and password and returns a signed session token.
// An unknown email yields ErrAccountNotFound, a wrong password ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (_ string, err error) {
	log := s.Log.With(logging.Group("account", "email", req.Email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "login failed", "error", err)
		} else {
			log.DebugContext(ctx, "login successful")
		}
	}()

	if err := req.Validate(); err != nil {
		return "", err
	}

	acc, err := s.AccountRepo.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	ok, err := s.Hasher.Verify(ctx, req.Password, acc.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	} else if !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.Tokens.IssueToken(domain.SessionClaim{AccountID: acc.ID})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	log = log.With(logging.Group("account", "id", acc.ID))

	return token, nil
}

// VerifyToken checks a session token and returns its claim.
// It implements the token verifier of the authorization middleware.
func (s *AccountService) VerifyToken(ctx context.Context, token string) (claim domain.SessionClaim, err error) {
	defer func() {
		if err != nil {
			s.Log.DebugContext(ctx, "token rejected", "error", err)
		}
	}()

	claim, err = s.Tokens.VerifyToken(ctx, token)
	if err != nil {
		return domain.SessionClaim{}, fmt.Errorf("verify token: %w", err)
	}

	return claim, nil
}

// GetAccount returns the account with the given ID.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "id", id))

	defer func() {
		if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			log.ErrorContext(ctx, "get account failed", "error", err)
		}
	}()

	acc, err := s.AccountRepo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return acc, nil
}

// FindAccounts returns the accounts matching the request's substring filters.
// An empty result is reported as ErrAccountNotFound.
func (s *AccountService) FindAccounts(ctx context.Context, req FindAccountsRequest) (_ []domain.Account, err error) {
	log := s.Log.With(logging.Group("filter",
		"nameHas", req.NameHas,
		"emailHas", req.EmailHas,
		"userNameHas", req.UserNameHas,
	))

	defer func() {
		if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			log.ErrorContext(ctx, "find accounts failed", "error", err)
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	accounts, err := s.AccountRepo.FindAccounts(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil, domain.ErrAccountNotFound
	}

	return accounts, nil
}

// UpdateAccount changes the name and/or email of an account.
func (s *AccountService) UpdateAccount(
	ctx context.Context,
	id int64,
	req UpdateAccountRequest,
) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "id", id))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "update account failed", "error", err)
		} else {
			log.DebugContext(ctx, "account updated")
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.AccountRepo.UpdateAccount(ctx, id, req.Update())
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	return acc, nil
}

// DeleteAccount removes an account and returns it as it was.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (_ *domain.Account, err error) {
	log := s.Log.With(logging.Group("account", "id", id))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "delete account failed", "error", err)
		} else {
			log.DebugContext(ctx, "account deleted")
		}
	}()

	acc, err := s.AccountRepo.DeleteAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}

	return acc, nil
}

// Close releases resources held by the service, such as database connections.
// Returns an error if cleanup fails.
func (s *AccountService) Close() error {
	if err := s.AccountRepo.Close(); err != nil {
		return fmt.Errorf("close account repo: %w", err)
	}

	return nil
}
