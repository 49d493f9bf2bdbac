package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfirmed       = errors.New("account not confirmed")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWrongPassword      = errors.New("wrong password")
)

// Repository abstracts persistence concerns from the domain layer.
// Implementations must enforce email uniqueness themselves (unique
// index) and report violations as ErrEmailTaken; callers treat any
// prior existence check as advisory only.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByToken(ctx context.Context, token string) (Account, error)
	Update(ctx context.Context, acc Account) error
}
