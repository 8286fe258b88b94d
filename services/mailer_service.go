package services

import (
	"gopkg.in/gomail.v2"

	"videochat-api/config"
)

// Mailer opens connections to the mail transport. One connection is shared
// across a whole recipient batch so that notifying N recipients does not dial
// N times.
type Mailer interface {
	Open() (gomail.SendCloser, error)
}

type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (m *SMTPMailer) Open() (gomail.SendCloser, error) {
	return m.dialer.Dial()
}
