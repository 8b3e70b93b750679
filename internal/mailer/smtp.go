package mailer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

type SMTPClient struct {
	dialer    *mail.Dialer
	fromEmail string
}

func NewSMTPClient(cfg SMTPConfig) (*SMTPClient, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("from email is required")
	}

	return &SMTPClient{
		dialer:    mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromEmail: cfg.FromEmail,
	}, nil
}

func (c *SMTPClient) Send(templateFile, username, email string, data any) error {
	msg, err := render(templateFile, data)
	if err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetAddressHeader("From", c.fromEmail, FromName)
	m.SetAddressHeader("To", email, username)
	m.SetHeader("Subject", msg.subject)
	m.SetBody("text/plain", msg.plainBody)
	m.AddAlternative("text/html", msg.htmlBody)

	var sendErr error
	for i := 0; i < maxRetires; i++ {
		sendErr = c.dialer.DialAndSend(m)
		if sendErr == nil {
			return nil
		}
		// exponential backoff
		time.Sleep(time.Second * time.Duration(1<<i))
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetires, sendErr)
}

// LogClient renders the message and writes it to the log instead of sending it.
// Used when no SMTP server is configured.
type LogClient struct {
	logger *zap.SugaredLogger
}

func NewLogClient(logger *zap.SugaredLogger) *LogClient {
	return &LogClient{logger: logger}
}

func (c *LogClient) Send(templateFile, username, email string, data any) error {
	msg, err := render(templateFile, data)
	if err != nil {
		return err
	}
	c.logger.Infow("email not sent, smtp disabled", "to", email, "name", username, "subject", msg.subject)
	return nil
}
