package account

import "context"

// SessionTokens abstracts session credential creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type SessionTokens interface {
	Generate(ctx context.Context, acc Account) (string, error)
}

// ActionTokens produces the opaque single-use tokens embedded in
// confirmation and password-reset links.
type ActionTokens interface {
	New() (string, error)
}
