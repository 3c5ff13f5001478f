package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const enqueueTimeout = 2 * time.Second

var ErrEmptyRecipient = errors.New("notification recipient is empty")

// Notifier hands messages to the delivery worker. A nil error only means the
// message was queued, never that it was delivered.
type Notifier interface {
	SendSMS(ctx context.Context, to, body string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type notificationService struct {
	client TaskEnqueuer
	log    *logrus.Logger
}

func NewNotificationService(client TaskEnqueuer, log *logrus.Logger) Notifier {
	return &notificationService{
		client: client,
		log:    log,
	}
}

func (s *notificationService) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return ErrEmptyRecipient
	}
	task, err := NewSMSTask(SMSPayload{To: to, Body: body})
	if err != nil {
		return err
	}
	return s.enqueue(ctx, task)
}

func (s *notificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrEmptyRecipient
	}
	task, err := NewEmailTask(EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}
	return s.enqueue(ctx, task)
}

func (s *notificationService) enqueue(ctx context.Context, task *asynq.Task) error {
	// The request may finish before the enqueue does
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	info, err := s.client.EnqueueContext(enqueueCtx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	s.log.Debugf("Enqueued %s task %s on queue %s", task.Type(), info.ID, info.Queue)
	return nil
}
