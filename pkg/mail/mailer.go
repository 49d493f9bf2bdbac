// Package mail delivers the transactional email for the account
// lifecycle: the registration confirmation and the password reset
// instructions, each carrying a single-use token link.
package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

const fromName = "APV - Administrador de Pacientes de Veterinaria"

// Config holds the relay and link-building settings. It is passed in
// explicitly so tests can substitute a double for the transport.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPMailer implements account.Mailer over an SMTP relay.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	cfg.FrontendURL = strings.TrimSuffix(cfg.FrontendURL, "/")
	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) SendRegistration(ctx context.Context, email, name, token string) error {
	subject := "Comprueba tu cuenta en APV"
	body := registrationBody(name, confirmLink(m.cfg.FrontendURL, token))
	return m.send(ctx, email, subject, body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	subject := "Restablece tu contraseña"
	body := passwordResetBody(name, resetLink(m.cfg.FrontendURL, token))
	return m.send(ctx, email, subject, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(fromName, m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func confirmLink(frontendURL, token string) string {
	return fmt.Sprintf("%s/confirmar/%s", frontendURL, token)
}

func resetLink(frontendURL, token string) string {
	return fmt.Sprintf("%s/olvide-password/%s", frontendURL, token)
}

func registrationBody(name, link string) string {
	return fmt.Sprintf(`<p>Hola: %s, comprueba tu cuenta en APV.</p>
		<p>Tu cuenta ya está lista, solo debes comprobarla en el siguiente enlace:
		<a href="%s">Comprobar Cuenta</a></p>
		<p>Si tú no creaste esta cuenta, puedes ignorar este mensaje.</p>`, name, link)
}

func passwordResetBody(name, link string) string {
	return fmt.Sprintf(`<p>Hola: %s, has solicitado restablecer tu contraseña.</p>
		<p>Sigue el siguiente enlace para generar una nueva contraseña:
		<a href="%s">Restablecer Contraseña</a></p>
		<p>Si tú no creaste esta cuenta, puedes ignorar este mensaje.</p>`, name, link)
}
