package notify

import (
	"context"
	"fmt"

	"nirvana-heritage/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTP sends notifications and transactional mail through an SMTP relay.
type SMTP struct {
	cfg config.MailConfig
}

func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Notify(ctx context.Context, subject, message string) error {
	return s.send(s.cfg.Operator, subject, message)
}

// SendResetLink mails the password reset link to a user.
func (s *SMTP) SendResetLink(to, link string) error {
	body := fmt.Sprintf(`To reset your password, visit the following link:
%s

If you did not make this request, simply ignore this email.
`, link)
	return s.send(to, "Nirvana Heritage - Password Reset Request", body)
}

func (s *SMTP) send(to, subject, body string) error {
	if to == "" {
		to = s.cfg.Username
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
