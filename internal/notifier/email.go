package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/paddocknews/f1news/internal/config"
	"github.com/paddocknews/f1news/internal/story"
)

const sendTimeout = 30 * time.Second

// sender delivers composed messages; *mail.Client satisfies it
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier emails new stories through an SMTP relay
type EmailNotifier struct {
	cfg  config.MailConfig
	dial func(config.MailConfig) (sender, error)
}

// NewEmailNotifier creates a new email notifier for the given relay settings
func NewEmailNotifier(cfg config.MailConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:  cfg,
		dial: newMailClient,
	}
}

// newMailClient connects with implicit TLS and PLAIN auth
func newMailClient(cfg config.MailConfig) (sender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}
	return client, nil
}

// Notify sends one email listing every story
func (n *EmailNotifier) Notify(ctx context.Context, stories []story.Story) error {
	if len(stories) == 0 {
		return nil
	}

	if !n.cfg.Configured() {
		return fmt.Errorf("missing mail credentials: set EMAIL_USER, EMAIL_PASS and RECEIVER_EMAIL")
	}

	msg, err := n.buildMessage(stories)
	if err != nil {
		return err
	}

	client, err := n.dial(n.cfg)
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email to %s: %w", n.cfg.To, err)
	}

	return nil
}

func (n *EmailNotifier) buildMessage(stories []story.Story) (*mail.Msg, error) {
	subject, body := FormatMessage(stories)

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.cfg.From, err)
	}
	if err := msg.To(n.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", n.cfg.To, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}
