package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is the domain entity for a registered veterinarian.
// Token, when non-empty, is the outstanding single-use action token
// (registration confirmation or password reset); empty means no
// pending action.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Confirmed    bool
	Token        string
	Web          string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
