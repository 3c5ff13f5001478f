package queue

import (
	"fmt"

	"clinic-appointment-api/config"
	"clinic-appointment-api/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

func redisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient returns the producer side used by the API to enqueue tasks.
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisConnOpt(cfg))
}

// NewServer returns the consumer side run by the notification worker.
func NewServer(redisCfg config.RedisConfig, workerCfg config.WorkerConfig, log *logrus.Logger) *asynq.Server {
	concurrency := workerCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	return asynq.NewServer(
		redisConnOpt(redisCfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				service.NotificationQueue: 1,
			},
			Logger: log,
		},
	)
}
