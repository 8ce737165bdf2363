package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends transactional mail.
type Service interface {
	SendRequestNotice(ctx context.Context, to, patientName, requestID string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendRequestNotice tells the clinic inbox that a new request arrived.
func (s *smtpService) SendRequestNotice(ctx context.Context, to, patientName, requestID string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New clinic request")
	m.SetBody("text/plain", fmt.Sprintf(
		"Patient %s submitted a new clinic request (reference %s).\n",
		patientName, requestID,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send request notice: %w", err)
	}
	return nil
}
