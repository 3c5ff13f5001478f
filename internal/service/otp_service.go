package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RedisOTPKeyPrefix is followed by the phone number
	RedisOTPKeyPrefix = "otp:"

	otpLength = 6
)

// consumeOTPScript compares and deletes in one step so a code is accepted once.
var consumeOTPScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		redis.call('DEL', KEYS[1])
		return 1
	end
	return 0
`)

// OTPStore keeps one-time passwords keyed by phone with a per-entry expiry.
type OTPStore interface {
	Issue(ctx context.Context, phone string) (string, error)
	Consume(ctx context.Context, phone, code string) (bool, error)
}

type redisOTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOTPStore(client *redis.Client, ttl time.Duration) OTPStore {
	return &redisOTPStore{client: client, ttl: ttl}
}

// Issue stores a fresh code, replacing any code still pending for phone.
func (s *redisOTPStore) Issue(ctx context.Context, phone string) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, RedisOTPKeyPrefix+phone, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

func (s *redisOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	n, err := consumeOTPScript.Run(ctx, s.client, []string{RedisOTPKeyPrefix + phone}, code).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n == 1, nil
}

// GenerateOTP returns a random six digit code without a leading zero.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n.Int64()+100000), nil
}
