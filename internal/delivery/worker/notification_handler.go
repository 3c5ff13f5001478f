package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-appointment-api/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender delivers a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// NotificationHandler consumes the tasks queued by the notification service.
// Every failure is final: tasks are never retried.
type NotificationHandler struct {
	sms   SMSSender
	email EmailSender
	log   *logrus.Logger
}

func NewNotificationHandler(sms SMSSender, email EmailSender, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		sms:   sms,
		email: email,
		log:   log,
	}
}

// Register mounts the handlers on mux.
func (h *NotificationHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(service.TypeNotificationSMS, h.HandleSMS)
	mux.HandleFunc(service.TypeNotificationEmail, h.HandleEmail)
}

func (h *NotificationHandler) HandleSMS(ctx context.Context, task *asynq.Task) error {
	var p service.SMSPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.log.Warnf("Invalid SMS payload: %+v", err)
		return fmt.Errorf("decode sms payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.sms.SendSMS(ctx, p.To, p.Body); err != nil {
		h.log.Warnf("Failed to send SMS to %s: %+v", p.To, err)
		return fmt.Errorf("send sms: %v: %w", err, asynq.SkipRetry)
	}

	return nil
}

func (h *NotificationHandler) HandleEmail(ctx context.Context, task *asynq.Task) error {
	var p service.EmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.log.Warnf("Invalid email payload: %+v", err)
		return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.email.SendEmail(ctx, p.To, p.Subject, p.Body); err != nil {
		h.log.Warnf("Failed to send email to %s: %+v", p.To, err)
		return fmt.Errorf("send email: %v: %w", err, asynq.SkipRetry)
	}

	return nil
}
