package notification

import (
	"testing"
	"time"
)

func TestTokenBucketRateLimiter_AllowsUpToCapacity(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if limiter.Allow() {
		t.Error("request beyond capacity should be denied")
	}
}

func TestTokenBucketRateLimiter_RefillsOverTime(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(1, 20*time.Millisecond)

	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow() {
		t.Fatal("second immediate request should be denied")
	}

	time.Sleep(40 * time.Millisecond)

	if !limiter.Allow() {
		t.Error("request after refill interval should be allowed")
	}
}

func TestTokenBucketRateLimiter_ResetRestoresCapacity(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(2, time.Hour)

	limiter.Allow()
	limiter.Allow()
	if limiter.Allow() {
		t.Fatal("bucket should be empty")
	}

	limiter.Reset()

	if !limiter.Allow() {
		t.Error("Reset should restore capacity")
	}
}
