package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

type fakeEnqueuer struct {
	tasks    []*asynq.Task
	err      error
	deadline bool
}

func (e *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	_, e.deadline = ctx.Deadline()
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: NotificationQueue, Type: task.Type()}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNotificationService_SendSMS(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := NewNotificationService(enq, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A finished request must not stop the enqueue
	if err := n.SendSMS(ctx, "+15550100", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enq.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(enq.tasks))
	}
	if !enq.deadline {
		t.Error("enqueue should run with a timeout")
	}

	task := enq.tasks[0]
	if task.Type() != TypeNotificationSMS {
		t.Errorf("unexpected task type %s", task.Type())
	}
	var p SMSPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.To != "+15550100" || p.Body != "hello" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestNotificationService_SendEmail(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := NewNotificationService(enq, quietLogger())

	if err := n.SendEmail(context.Background(), "a@example.com", "Welcome!", "Thank you for signing up."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p EmailPayload
	if err := json.Unmarshal(enq.tasks[0].Payload(), &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.To != "a@example.com" || p.Subject != "Welcome!" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestNotificationService_Errors(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := NewNotificationService(enq, quietLogger())

	if err := n.SendSMS(context.Background(), "", "hello"); !errors.Is(err, ErrEmptyRecipient) {
		t.Errorf("expected ErrEmptyRecipient, got %v", err)
	}
	if err := n.SendEmail(context.Background(), "", "s", "b"); !errors.Is(err, ErrEmptyRecipient) {
		t.Errorf("expected ErrEmptyRecipient, got %v", err)
	}

	enq.err = errors.New("redis unavailable")
	if err := n.SendSMS(context.Background(), "+15550100", "hello"); !errors.Is(err, enq.err) {
		t.Errorf("expected wrapped enqueue error, got %v", err)
	}
}
