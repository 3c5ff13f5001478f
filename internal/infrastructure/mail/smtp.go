package mail

import (
	"context"
	"fmt"

	"clinic-appointment-api/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers plain-text email over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, log *logrus.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Infof("Email sent to %s", to)
	return nil
}

// LogSender only logs the message; used when SMTP is not configured.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.log.WithFields(logrus.Fields{"to": to, "subject": subject, "body": body}).Info("Email delivery disabled, message logged")
	return nil
}
