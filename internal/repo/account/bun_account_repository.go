package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mkrupp/userapi/internal/domain"
	"github.com/mkrupp/userapi/internal/infra/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	pgUniqueViolation = "23505"
	likeEscape        = '!'
)

// ErrUnsupportedDriver is returned for a driver other than sqlite or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT    NOT NULL UNIQUE,
		name          TEXT,
		username      TEXT,
		password_hash TEXT    NOT NULL,
		created_at    INTEGER NOT NULL
	)
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT      NOT NULL UNIQUE,
		name          TEXT,
		username      TEXT,
		password_hash TEXT      NOT NULL,
		created_at    BIGINT    NOT NULL
	)
`

// BunAccountRepositoryConfig holds configuration for the bun account repository.
type BunAccountRepositoryConfig struct {
	// Driver selects the database: "sqlite" or "postgres"
	Driver string `env:"DRIVER" default:"sqlite"`

	// DSN is the SQLite file path or the PostgreSQL connection string
	DSN string `env:"DSN" alias:"DATABASE_URL" default:"var/storage/accountsvc.db"`
}

type accountModel struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Email        string `bun:"email,notnull"`
	Name         string `bun:"name,nullzero"`
	Username     string `bun:"username,nullzero"`
	PasswordHash string `bun:"password_hash,notnull"`
	CreatedAt    int64  `bun:"created_at,notnull"`
}

func (m *accountModel) toDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

// BunAccountRepository implements Repository on top of bun, backed by SQLite or PostgreSQL.
type BunAccountRepository struct {
	db  *bun.DB
	log logging.Logger
}

var _ Repository = (*BunAccountRepository)(nil)

// BunAccountRepositoryFactory creates a factory function that returns a new BunAccountRepository.
// The factory function implements the RepositoryFactory type.
func BunAccountRepositoryFactory(cfg BunAccountRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewBunAccountRepository(context.Background(), cfg)
	}
}

// NewBunAccountRepository opens the configured database and creates the users table if needed.
// Returns an error if the connection or the schema setup fails.
func NewBunAccountRepository(ctx context.Context, cfg BunAccountRepositoryConfig) (*BunAccountRepository, error) {
	log := logging.GetLogger("repo.account.bun_account_repository").With(
		logging.Group("db", "driver", cfg.Driver),
	)

	var (
		driverName string
		dialect    schema.Dialect
		ddl        string
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		driverName, dialect, ddl = "sqlite", sqlitedialect.New(), sqliteSchema
	case DriverPostgres:
		driverName, dialect, ddl = "pgx", pgdialect.New(), postgresSchema
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	sqldb, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if driverName == "sqlite" {
		// go-sqlite does not support concurrent writes
		sqldb.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqldb, dialect)

	if err := initializeDB(ctx, db, driverName, ddl); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("initialize db: %w", err)
	}

	log.DebugContext(ctx, "account repository ready")

	return &BunAccountRepository{
		db:  db,
		log: log,
	}, nil
}

func initializeDB(ctx context.Context, db *bun.DB, driverName, ddl string) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if driverName == "sqlite" {
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			return fmt.Errorf("set busy timeout: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// CreateAccount implements Repository.CreateAccount.
func (r *BunAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	model := &accountModel{
		Email:        account.Email,
		Name:         account.Name,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		CreatedAt:    time.Now().Unix(),
	}

	if _, err := r.db.NewInsert().Model(model).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert account: %w", mapConstraintError(err))
	}

	account.ID = model.ID
	account.CreatedAt = model.CreatedAt

	return nil
}

// GetAccountByID implements Repository.GetAccountByID.
func (r *BunAccountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.getAccount(ctx, r.db, "id = ?", id)
}

// GetAccountByEmail implements Repository.GetAccountByEmail.
func (r *BunAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getAccount(ctx, r.db, "email = ?", email)
}

func (r *BunAccountRepository) getAccount(
	ctx context.Context,
	db bun.IDB,
	where string,
	arg any,
) (*domain.Account, error) {
	var model accountModel

	if err := db.NewSelect().Model(&model).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrAccountNotFound, err)
		}

		return nil, fmt.Errorf("query account: %w", err)
	}

	return model.toDomain(), nil
}

// FindAccounts implements Repository.FindAccounts.
func (r *BunAccountRepository) FindAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var models []accountModel

	query := r.db.NewSelect().Model(&models).OrderExpr("id ASC")

	for column, needle := range map[string]string{
		"name":     filter.NameHas,
		"email":    filter.EmailHas,
		"username": filter.UsernameHas,
	} {
		if needle == "" {
			continue
		}

		query = query.Where("? LIKE ? ESCAPE ?", bun.Ident(column), containsPattern(needle), string(likeEscape))
	}

	if err := query.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, *models[i].toDomain())
	}

	return accounts, nil
}

// UpdateAccount implements Repository.UpdateAccount.
func (r *BunAccountRepository) UpdateAccount(
	ctx context.Context,
	id int64,
	update domain.AccountUpdate,
) (*domain.Account, error) {
	var updated *domain.Account

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.getAccount(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}

		if update.Empty() {
			updated = current

			return nil
		}

		model := &accountModel{
			ID:           current.ID,
			Email:        current.Email,
			Name:         current.Name,
			Username:     current.Username,
			PasswordHash: current.PasswordHash,
			CreatedAt:    current.CreatedAt,
		}

		if update.Name != nil {
			model.Name = *update.Name
		}

		if update.Email != nil {
			model.Email = *update.Email
		}

		res, err := tx.NewUpdate().Model(model).Column("name", "email").WherePK().Exec(ctx)
		if err != nil {
			return fmt.Errorf("update account: %w", mapConstraintError(err))
		}

		if err := expectRows(res); err != nil {
			return err
		}

		updated = model.toDomain()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update tx: %w", err)
	}

	return updated, nil
}

// DeleteAccount implements Repository.DeleteAccount.
func (r *BunAccountRepository) DeleteAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var deleted *domain.Account

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.getAccount(ctx, tx, "id = ?", id)
		if err != nil {
			return err
		}

		res, err := tx.NewDelete().Model((*accountModel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}

		if err := expectRows(res); err != nil {
			return err
		}

		deleted = current

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete tx: %w", err)
	}

	return deleted, nil
}

// Close implements Repository.Close by closing the database connection.
func (r *BunAccountRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// mapConstraintError joins ErrAccountAlreadyExists onto unique violations of either backend.
func mapConstraintError(err error) error {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			fallthrough
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return errors.Join(domain.ErrAccountAlreadyExists, err)
		default:
			return err
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errors.Join(domain.ErrAccountAlreadyExists, err)
	}

	return err
}

// containsPattern builds a LIKE pattern matching needle anywhere, with wildcards in needle taken literally.
func containsPattern(needle string) string {
	var b strings.Builder

	b.Grow(len(needle) + 2) //nolint:mnd
	b.WriteByte('%')

	for _, c := range needle {
		if c == '%' || c == '_' || c == likeEscape {
			b.WriteRune(likeEscape)
		}

		b.WriteRune(c)
	}

	b.WriteByte('%')

	return b.String()
}
