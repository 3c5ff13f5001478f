package sms

import (
	"context"
	"fmt"

	"clinic-appointment-api/config"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers text messages through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    *logrus.Logger
}

func NewTwilioSender(cfg config.TwilioConfig, log *logrus.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		client: client,
		from:   cfg.PhoneNumber,
		log:    log,
	}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.log.Infof("SMS sent to %s with SID %s", to, sid)
	return nil
}

// LogSender only logs the message; used when Twilio is not configured.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.log.WithFields(logrus.Fields{"to": to, "body": body}).Info("SMS delivery disabled, message logged")
	return nil
}
