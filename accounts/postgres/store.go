package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jrsteele09/coursedeck/accounts"
	"github.com/jrsteele09/coursedeck/accounts/postgres/migrations"
)

// pgUniqueViolation is the Postgres error code raised when the unique
// index on lower(email) rejects a concurrent duplicate insert.
const pgUniqueViolation = "23505"

var _ accounts.Store = (*Store)(nil)

// Store is the Postgres-backed credential store.
type Store struct {
	db *sql.DB
}

// Open connects to the database, runs the embedded migrations, and
// returns a ready Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", accounts.StoreUnavailableErr, err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	query :=
		`SELECT id, display_name, email, credential_hash, created_at FROM accounts
		 WHERE email = $1
		 `

	account := &accounts.Account{}
	err := s.db.QueryRowContext(ctx, query, accounts.NormalizeEmail(email)).
		Scan(&account.ID, &account.DisplayName, &account.Email, &account.CredentialHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.AccountNotFoundErr
		}
		return nil, fmt.Errorf("%w: %v", accounts.StoreUnavailableErr, err)
	}

	return account, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	query :=
		`SELECT id, display_name, email, credential_hash, created_at FROM accounts
		 WHERE id = $1
		 `

	account := &accounts.Account{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.DisplayName, &account.Email, &account.CredentialHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.AccountNotFoundErr
		}
		return nil, fmt.Errorf("%w: %v", accounts.StoreUnavailableErr, err)
	}

	return account, nil
}

func (s *Store) Insert(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	query :=
		`INSERT INTO accounts (id, display_name, email, credential_hash, created_at)
         VALUES ($1, $2, $3, $4, $5)
		 `

	stored := *account
	stored.ID = uuid.New().String()
	stored.Email = accounts.NormalizeEmail(account.Email)
	stored.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.DisplayName, stored.Email, stored.CredentialHash, stored.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, accounts.DuplicateAccountErr
		}
		return nil, fmt.Errorf("%w: %v", accounts.StoreUnavailableErr, err)
	}

	return &stored, nil
}
