package mail

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/domain/ports"
)

// SMTPConfig holds the externally supplied transport settings. From
// and To are fixed addresses; the per-request sender only changes the
// display name.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTP delivers request emails through an SMTP relay.
type SMTP struct {
	cfg     SMTPConfig
	timeout time.Duration
	logger  ports.Logger
}

var _ ports.Mailer = (*SMTP)(nil)

// NewSMTP creates a new SMTP mailer.
func NewSMTP(cfg SMTPConfig, timeout time.Duration, logger ports.Logger) *SMTP {
	return &SMTP{cfg: cfg, timeout: timeout, logger: logger}
}

// Send builds and dispatches the message. Any failure is fatal to the
// submission that produced the email.
func (s *SMTP) Send(ctx context.Context, email model.Email) error {
	msg, err := s.buildMessage(email)
	if err != nil {
		return err
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Info(ctx, "mail dispatched", "to", s.cfg.To, "cc", email.Cc)
	return nil
}

func (s *SMTP) buildMessage(email model.Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.FromFormat(email.FromName, s.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(s.cfg.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	if email.Cc != "" {
		if err := msg.Cc(email.Cc); err != nil {
			return nil, fmt.Errorf("set cc: %w", err)
		}
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTML)

	for _, att := range email.Attachments {
		if !att.Present() {
			continue
		}
		if err := msg.AttachReader(att.Filename, bytes.NewReader(att.Data)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	return msg, nil
}

func (s *SMTP) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(s.timeout),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return gomail.NewClient(s.cfg.Host, opts...)
}
