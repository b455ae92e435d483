package server

import "testing"

func TestLimiterBurst(t *testing.T) {
	l := NewLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst was rejected", i)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("Expected request beyond burst to be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("Other clients must have their own bucket")
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected with throttling disabled", i)
		}
	}
}

func TestLimiterSetLimit(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow("10.0.0.1") {
		t.Fatal("first request rejected")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second request should exceed burst of 1")
	}

	l.SetLimit(0, 0)
	if !l.Allow("10.0.0.1") {
		t.Error("Expected throttling to be disabled after SetLimit(0, 0)")
	}
}
