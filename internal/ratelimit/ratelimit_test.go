package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !l.Allow(ctx, "ip-1", 3, time.Minute) {
			t.Fatalf("request %d denied", i+1)
		}
	}
	if l.Allow(ctx, "ip-1", 3, time.Minute) {
		t.Fatal("fourth request allowed")
	}
	if !l.Allow(ctx, "ip-2", 3, time.Minute) {
		t.Fatal("other key shares the window")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow(ctx, "ip-1", 3, time.Minute) {
		t.Fatal("request denied after window reset")
	}
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 5; i++ {
		if !l.Allow(context.Background(), "ip", 0, time.Minute) {
			t.Fatal("zero limit should disable limiting")
		}
	}
}
