package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/xxiimcha/lifeec-mobile/pkg/config"
	"go.uber.org/zap"
)

// Notifier delivers password reset links to account owners.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// New returns an SMTP notifier when a host is configured and a log-only
// notifier otherwise.
func New(cfg *config.MailConfig, log *zap.Logger) (Notifier, error) {
	if cfg.Host == "" {
		return &LogNotifier{log: log}, nil
	}
	return NewSMTPNotifier(cfg)
}

// SMTPNotifier sends mail through an SMTP relay.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier builds a notifier for the configured relay
func NewSMTPNotifier(cfg *config.MailConfig) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPNotifier{client: client, from: cfg.From}, nil
}

// SendPasswordReset mails the reset link to the given address
func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject("Password Reset")
	msg.SetBodyString(mail.TypeTextPlain, resetBody(resetLink))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogNotifier writes reset links to the log. Used in development.
type LogNotifier struct {
	log *zap.Logger
}

// SendPasswordReset logs the reset link instead of mailing it
func (n *LogNotifier) SendPasswordReset(_ context.Context, to, resetLink string) error {
	n.log.Info("Password reset link generated",
		zap.String("to", to),
		zap.String("link", resetLink))
	return nil
}

func resetBody(link string) string {
	return "You are receiving this because you (or someone else) requested a password reset.\n\n" +
		"Open the following link within 10 minutes to choose a new password:\n\n" +
		link + "\n\n" +
		"If you did not request this, ignore this email and your password will remain unchanged.\n"
}
