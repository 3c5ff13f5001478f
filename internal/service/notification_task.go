package service

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types consumed by the notification worker
const (
	TypeNotificationSMS   = "notification:sms"
	TypeNotificationEmail = "notification:email"

	// NotificationQueue is the asynq queue both task types are enqueued on
	NotificationQueue = "notifications"
)

type SMSPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSMSTask builds an at-most-once SMS task.
func NewSMSTask(payload SMSPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationSMS, b, notificationTaskOptions()...), nil
}

// NewEmailTask builds an at-most-once email task.
func NewEmailTask(payload EmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationEmail, b, notificationTaskOptions()...), nil
}

func notificationTaskOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(NotificationQueue),
		asynq.MaxRetry(0),
	}
}
