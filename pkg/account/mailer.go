package account

import "context"

// Mailer delivers transactional email carrying an action token.
// Delivery is best-effort: the use case logs failures and never fails
// the triggering request because of them.
type Mailer interface {
	SendRegistration(ctx context.Context, email, name, token string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}
