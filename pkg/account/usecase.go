package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UseCase describes the account lifecycle: registration, email
// confirmation, authentication, password recovery and profile upkeep.
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (Account, error)
	Confirm(ctx context.Context, token string) error
	Authenticate(ctx context.Context, email, password string) (AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (Account, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Web      string
	Phone    string
}

type ProfileInput struct {
	Name  string
	Email string
	Web   string
	Phone string
}

type AuthResult struct {
	Account Account
	Token   string
}

type service struct {
	repo    Repository
	session SessionTokens
	actions ActionTokens
	mailer  Mailer
	log     *slog.Logger
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, session SessionTokens, actions ActionTokens, mailer Mailer, log *slog.Logger) UseCase {
	return &service{repo: repo, session: session, actions: actions, mailer: mailer, log: log}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	if in.Email == "" || in.Password == "" {
		return Account{}, ErrInvalidCredentials
	}

	// If the email is taken, fail fast (advisory check; the unique
	// index on email is the authoritative guard).
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return Account{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	token, err := s.actions.New()
	if err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acc := Account{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		Confirmed:    false,
		Token:        token,
		Web:          in.Web,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return Account{}, err
	}

	if err := s.mailer.SendRegistration(ctx, acc.Email, acc.Name, token); err != nil {
		s.log.Error("registration email failed", "email", acc.Email, "error", err)
	}
	return acc, nil
}

func (s *service) Confirm(ctx context.Context, token string) error {
	acc, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return ErrNotFound
	}
	acc.Token = ""
	acc.Confirmed = true
	return s.repo.Update(ctx, acc)
}

func (s *service) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, ErrNotFound
	}
	if !acc.Confirmed {
		return AuthResult{}, ErrNotConfirmed
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.session.Generate(ctx, acc)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Account: acc, Token: token}, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return ErrNotFound
	}
	token, err := s.actions.New()
	if err != nil {
		return err
	}
	acc.Token = token
	if err := s.repo.Update(ctx, acc); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, acc.Email, acc.Name, token); err != nil {
		s.log.Error("password reset email failed", "email", acc.Email, "error", err)
	}
	return nil
}

func (s *service) ValidateResetToken(ctx context.Context, token string) error {
	if _, err := s.repo.GetByToken(ctx, token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

func (s *service) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	acc, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.Token = ""
	acc.PasswordHash = string(passwordHash)
	return s.repo.Update(ctx, acc)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, ErrNotFound
	}

	if in.Email != acc.Email {
		if other, err := s.repo.GetByEmail(ctx, in.Email); err == nil && other.ID != acc.ID {
			return Account{}, ErrEmailTaken
		}
	}

	acc.Name = in.Name
	acc.Email = in.Email
	acc.Web = in.Web
	acc.Phone = in.Phone
	if err := s.repo.Update(ctx, acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(passwordHash)
	return s.repo.Update(ctx, acc)
}
