package middleware

import (
	"testing"
	"time"
)

func TestAllowUnderLimit(t *testing.T) {
	rl := NewIPRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first request from 1.1.1.1 should be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("second request from 1.1.1.1 should be denied")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("other IPs should not be affected")
	}
}

func TestWindowSlides(t *testing.T) {
	rl := NewIPRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second immediate request should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Error("request after the window passed should be allowed")
	}
}
