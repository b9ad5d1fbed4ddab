package kigo

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("Check blocked after %d failures, want allowed", i)
		}
		l.Record("1.2.3.4")
	}
	if l.Check("1.2.3.4") {
		t.Error("Check allowed after max failures, want blocked")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)

	l.Record("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Error("blocked IP allowed")
	}
	if !l.Check("5.6.7.8") {
		t.Error("other IP blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	l := NewLoginLimiter(1, 10*time.Millisecond)

	l.Record("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Fatal("Check allowed right after failure, want blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Check("1.2.3.4") {
		t.Error("Check still blocked after window elapsed")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	l := NewLoginLimiter(2, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatal("Check alone consumed the budget")
		}
	}
}
