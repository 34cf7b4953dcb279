package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	From         string
	FromName     string
	SendGridKey  string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// NewSender prefers SendGrid, then SMTP, and falls back to logging messages.
func NewSender(cfg Config, logger *slog.Logger) Sender {
	switch {
	case cfg.SendGridKey != "":
		logger.Info("mail sender: sendgrid")
		return &SendGridSender{client: sendgrid.NewSendClient(cfg.SendGridKey), fromName: cfg.FromName, from: cfg.From}
	case cfg.SMTPHost != "":
		logger.Info("mail sender: smtp", "host", cfg.SMTPHost)
		return NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		logger.Warn("mail sender: console only, set SENDGRID_API_KEY or SMTP_HOST to deliver mail")
		return &ConsoleSender{logger: logger}
	}
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	from := msg.From
	if from == "" {
		from = s.From
	}
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.from
	}
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		"",
		msg.HTML,
	)
	if msg.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type ConsoleSender struct {
	logger *slog.Logger
}

func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not delivered (console mode)",
		"to", msg.To, "subject", msg.Subject, "reply_to", msg.ReplyTo, "bytes", len(msg.HTML))
	return nil
}
