package bootstrap

import (
	"fmt"

	"clinic-appointment-api/config"
	"clinic-appointment-api/internal/delivery/worker"
	"clinic-appointment-api/internal/infrastructure/mail"
	"clinic-appointment-api/internal/infrastructure/queue"
	"clinic-appointment-api/internal/infrastructure/sms"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Worker is the notification delivery process
type Worker struct {
	Config *config.Config
	Log    *logrus.Logger
	Server *asynq.Server
	Mux    *asynq.ServeMux
}

// NewWorker wires the asynq server with the configured SMS and email senders
func NewWorker() (*Worker, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.App.LogLevel)

	var smsSender worker.SMSSender
	if cfg.Twilio.Enabled() {
		smsSender = sms.NewTwilioSender(cfg.Twilio, log)
		log.Info("SMS delivery via Twilio")
	} else {
		smsSender = sms.NewLogSender(log)
		log.Warn("Twilio not configured, SMS messages will only be logged")
	}

	var emailSender worker.EmailSender
	if cfg.SMTP.Enabled() {
		emailSender = mail.NewSMTPSender(cfg.SMTP, log)
		log.Infof("Email delivery via SMTP %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		emailSender = mail.NewLogSender(log)
		log.Warn("SMTP not configured, emails will only be logged")
	}

	mux := asynq.NewServeMux()
	worker.NewNotificationHandler(smsSender, emailSender, log).Register(mux)

	return &Worker{
		Config: cfg,
		Log:    log,
		Server: queue.NewServer(cfg.Redis, cfg.Worker, log),
		Mux:    mux,
	}, nil
}

// Run blocks until SIGINT/SIGTERM, then drains in-flight tasks
func (w *Worker) Run() error {
	w.Log.Infof("Notification worker starting (concurrency=%d)", w.Config.Worker.Concurrency)
	if err := w.Server.Run(w.Mux); err != nil {
		return fmt.Errorf("notification worker stopped: %w", err)
	}
	w.Log.Info("Notification worker shutdown complete")
	return nil
}
