package service

import (
	"context"
	"testing"
	"time"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(code) != otpLength {
			t.Fatalf("expected %d digits, got %q", otpLength, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non digit in %q", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes should vary")
	}
}

func TestRedisOTPStore_SingleUse(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisOTPStore(client, 5*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+15550100")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got, _ := mr.Get(RedisOTPKeyPrefix + "+15550100"); got != code {
		t.Fatalf("stored %q, issued %q", got, code)
	}
	if ttl := mr.TTL(RedisOTPKeyPrefix + "+15550100"); ttl != 5*time.Minute {
		t.Errorf("ttl = %s", ttl)
	}

	ok, err := store.Consume(ctx, "+15550100", code)
	if err != nil || !ok {
		t.Fatalf("first consume = %v, %v", ok, err)
	}
	ok, err = store.Consume(ctx, "+15550100", code)
	if err != nil || ok {
		t.Fatalf("second consume = %v, %v; want false", ok, err)
	}
}

func TestRedisOTPStore_Rejections(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisOTPStore(client, time.Minute)
	ctx := context.Background()

	t.Run("wrong code keeps the pending one", func(t *testing.T) {
		code, err := store.Issue(ctx, "+15550101")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		wrong := "000000"
		if ok, err := store.Consume(ctx, "+15550101", wrong); err != nil || ok {
			t.Fatalf("wrong code = %v, %v", ok, err)
		}
		if ok, err := store.Consume(ctx, "+15550101", code); err != nil || !ok {
			t.Fatalf("right code after a wrong one = %v, %v", ok, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		code, err := store.Issue(ctx, "+15550102")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		mr.FastForward(time.Minute + time.Second)
		if ok, err := store.Consume(ctx, "+15550102", code); err != nil || ok {
			t.Fatalf("expired code = %v, %v", ok, err)
		}
	})

	t.Run("never issued", func(t *testing.T) {
		if ok, err := store.Consume(ctx, "+15550103", "123456"); err != nil || ok {
			t.Fatalf("unknown phone = %v, %v", ok, err)
		}
	})

	t.Run("reissue replaces", func(t *testing.T) {
		first, err := store.Issue(ctx, "+15550104")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		second, err := store.Issue(ctx, "+15550104")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if first != second {
			if ok, _ := store.Consume(ctx, "+15550104", first); ok {
				t.Error("replaced code should be rejected")
			}
		}
		if ok, err := store.Consume(ctx, "+15550104", second); err != nil || !ok {
			t.Fatalf("latest code = %v, %v", ok, err)
		}
	})
}
