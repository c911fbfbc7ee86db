package middleware

import (
	"testing"
	"time"
)

func TestIPRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewIPRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit was allowed")
	}
}

func TestIPRateLimiterIsolatesIPs(t *testing.T) {
	rl := NewIPRateLimiter(1, time.Minute)

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first IP denied")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("second IP denied, limits should be per IP")
	}
	if rl.Allow("1.1.1.1") {
		t.Error("first IP allowed over its limit")
	}
}

func TestIPRateLimiterWindowSlides(t *testing.T) {
	rl := NewIPRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request denied")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request inside the window was allowed")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Error("request after the window expired was denied")
	}
}
