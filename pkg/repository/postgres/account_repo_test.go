package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apvclinic/apv/pkg/account"
)

func newRepo(t *testing.T) (*AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS veterinarios").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	repo, err := NewAccountRepository(mock)
	require.NoError(t, err)
	return repo, mock
}

func testAccount() account.Account {
	now := time.Now().UTC().Truncate(time.Second)
	return account.Account{
		ID:           uuid.New(),
		Name:         "Ana Torres",
		Email:        "ana@clinic.com",
		PasswordHash: "$2a$10$hash",
		Confirmed:    false,
		Token:        "pending-token",
		Web:          "https://clinic.com",
		Phone:        "5512345678",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func accountRows(acc account.Account) *pgxmock.Rows {
	var token *string
	if acc.Token != "" {
		token = &acc.Token
	}
	return pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "confirmed",
		"token", "web", "phone", "created_at", "updated_at",
	}).AddRow(acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.Confirmed,
		token, acc.Web, acc.Phone, acc.CreatedAt, acc.UpdatedAt)
}

func TestAccountRepositoryCreate(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO veterinarios").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to ErrEmailTaken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO veterinarios").
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: account.ErrEmailTaken,
		},
		{
			name: "other errors pass through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO veterinarios").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), testAccount())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestAccountRepositoryCreateLowercasesEmail(t *testing.T) {
	repo, mock := newRepo(t)
	acc := testAccount()
	acc.Email = "Ana@Clinic.COM"

	mock.ExpectExec("INSERT INTO veterinarios").
		WithArgs(acc.ID, acc.Name, "ana@clinic.com", acc.PasswordHash, acc.Confirmed,
			pgxmock.AnyArg(), acc.Web, acc.Phone, acc.CreatedAt, acc.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), acc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		want := testAccount()
		mock.ExpectQuery("FROM veterinarios WHERE email").
			WithArgs("ana@clinic.com").
			WillReturnRows(accountRows(want))

		got, err := repo.GetByEmail(context.Background(), "Ana@Clinic.com")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("FROM veterinarios WHERE email").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "nobody@clinic.com")
		assert.ErrorIs(t, err, account.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepositoryGetByID(t *testing.T) {
	repo, mock := newRepo(t)
	want := testAccount()
	mock.ExpectQuery("FROM veterinarios WHERE id").
		WithArgs(want.ID).
		WillReturnRows(accountRows(want))

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByToken(t *testing.T) {
	t.Run("empty token never queries", func(t *testing.T) {
		repo, mock := newRepo(t)

		_, err := repo.GetByToken(context.Background(), "")
		assert.ErrorIs(t, err, account.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		want := testAccount()
		mock.ExpectQuery("FROM veterinarios WHERE token").
			WithArgs("pending-token").
			WillReturnRows(accountRows(want))

		got, err := repo.GetByToken(context.Background(), "pending-token")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("FROM veterinarios WHERE token").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByToken(context.Background(), "bogus")
		assert.ErrorIs(t, err, account.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepositoryUpdate(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE veterinarios").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "no rows affected maps to ErrNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE veterinarios").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: account.ErrNotFound,
		},
		{
			name: "unique violation maps to ErrEmailTaken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("UPDATE veterinarios").
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: account.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setupMock(mock)

			err := repo.Update(context.Background(), testAccount())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
