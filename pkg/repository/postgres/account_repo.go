package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/apvclinic/apv/pkg/account"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements account.Repository backed by PostgreSQL (pgx).
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) (*AccountRepository, error) {
	repo := &AccountRepository{db: db}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AccountRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS veterinarios (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			token TEXT,
			web TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS veterinarios_token_idx
			ON veterinarios (token) WHERE token IS NOT NULL;
	`)
	return err
}

const accountColumns = `id, name, email, password_hash, confirmed, token, web, phone, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, acc account.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO veterinarios (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, acc.ID, acc.Name, strings.ToLower(acc.Email), acc.PasswordHash, acc.Confirmed,
		nullIfEmpty(acc.Token), acc.Web, acc.Phone, acc.CreatedAt, acc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return account.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM veterinarios WHERE email = $1
	`, strings.ToLower(email))
	return scanAccount(row)
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM veterinarios WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *AccountRepository) GetByToken(ctx context.Context, token string) (account.Account, error) {
	// A cleared token is NULL in storage; never let "" match anything.
	if token == "" {
		return account.Account{}, account.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM veterinarios WHERE token = $1
	`, token)
	return scanAccount(row)
}

func (r *AccountRepository) Update(ctx context.Context, acc account.Account) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE veterinarios
		SET name = $2, email = $3, password_hash = $4, confirmed = $5,
			token = $6, web = $7, phone = $8, updated_at = now()
		WHERE id = $1
	`, acc.ID, acc.Name, strings.ToLower(acc.Email), acc.PasswordHash, acc.Confirmed,
		nullIfEmpty(acc.Token), acc.Web, acc.Phone)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return account.ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var acc account.Account
	var token *string
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Confirmed,
		&token, &acc.Web, &acc.Phone, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	if token != nil {
		acc.Token = *token
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
	return acc, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
