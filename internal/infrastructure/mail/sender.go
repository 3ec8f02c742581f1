package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Tenancy-api/pkg/config"
)

// Sender entrega un correo ya renderizado.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// NewSender construye el Sender según MAIL_DRIVER.
func NewSender(cfg config.MailConfig, log zerolog.Logger) (Sender, error) {
	switch cfg.Driver {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.From, cfg.FromName)
	case "log", "":
		return NewLogSender(log), nil
	}
	return nil, fmt.Errorf("mail driver %q no soportado", cfg.Driver)
}

// SMTPSender envía por SMTP con gomail.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPSender construye el sender SMTP.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send abre una conexión por mensaje; el volumen es bajo.
func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.HTML)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type sendGridClient interface {
	Send(email *sgmail.SGMailV3) (*rest.Response, error)
}

var _ sendGridClient = (*sendgrid.Client)(nil)

// SendGridSender envía por la API de SendGrid.
type SendGridSender struct {
	client   sendGridClient
	from     string
	fromName string
}

// NewSendGridSender construye el sender; falla si falta la API key.
func NewSendGridSender(apiKey, from, fromName string) (*SendGridSender, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid: API key vacía")
	}
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), from: from, fromName: fromName}, nil
}

// Send envía el correo; un status >= 400 es error.
func (s *SendGridSender) Send(ctx context.Context, e Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := sgmail.NewSingleEmail(sgmail.NewEmail(s.fromName, s.from), e.Subject, sgmail.NewEmail("", e.To), "", e.HTML)
	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d, body %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender no envía nada: registra el correo (desarrollo y dry-run).
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender construye el sender de log.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send registra destinatario, plantilla y asunto.
func (s *LogSender) Send(_ context.Context, e Email) error {
	s.log.Info().
		Str("to", e.To).
		Str("template", string(e.Template)).
		Str("subject", e.Subject).
		Msg("correo (dry-run)")
	return nil
}
