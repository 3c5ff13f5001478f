package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotBeingBooked is returned when the doctor's day lock could not be taken
// before the wait ran out
var ErrSlotBeingBooked = errors.New("slot is currently being booked")

// releaseLockScript deletes the key only if it still holds our token, so a
// lock that expired and was taken by another request is left alone.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// RedisSlotLockKeyPrefix is followed by <doctor_id>:<YYYY-MM-DD>
	RedisSlotLockKeyPrefix = "lock:doctor_day:"

	defaultSlotLockTTL = 5 * time.Second
	lockReleaseTimeout = 2 * time.Second

	lockRetryMin = 10 * time.Millisecond
	lockRetryMax = 100 * time.Millisecond
)

// SlotLocker serialises booking writes for one doctor on one calendar day.
// Callers queue behind the current holder instead of being turned away.
type SlotLocker interface {
	WithDoctorDayLock(ctx context.Context, doctorID uuid.UUID, day string, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisSlotLocker(client *redis.Client, log *logrus.Logger, ttl time.Duration) SlotLocker {
	if ttl <= 0 {
		ttl = defaultSlotLockTTL
	}
	return &redisSlotLocker{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithDoctorDayLock(ctx context.Context, doctorID uuid.UUID, day string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("%s%s:%s", RedisSlotLockKeyPrefix, doctorID.String(), day)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		// Release even when ctx is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release slot lock %s: %+v", key, err)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// acquire retries SET NX with backoff. A holder keeps the key for at most ttl,
// so waiting longer than ttl means the lock is stuck.
func (l *redisSlotLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.ttl)
	backoff := lockRetryMin

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire slot lock: %w", err)
		}
		if ok {
			return nil
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			l.log.Warnf("Timed out waiting for slot lock %s", key)
			return ErrSlotBeingBooked
		}
		if backoff < wait {
			wait = backoff
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
		if backoff > lockRetryMax {
			backoff = lockRetryMax
		}
	}
}
