package ratelimit

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLimiter_WindowResets(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(2, time.Minute)
	l.now = c.now

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two hits should pass")
	}
	if l.Allow("k") {
		t.Fatal("third hit in the window should be refused")
	}
	if !l.Allow("other") {
		t.Fatal("keys are independent")
	}

	c.t = c.t.Add(time.Minute)
	if !l.Allow("k") {
		t.Fatal("hit after the window should pass")
	}
}

func TestLimiter_SweepsExpired(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(1, time.Second)
	l.now = c.now
	l.Allow("a")
	l.Allow("b")

	c.t = c.t.Add(3 * time.Second)
	l.Allow("c")
	if got := l.Len(); got != 1 {
		t.Fatalf("tracked keys = %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/signin", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	r.Header.Set("X-Real-IP", "10.0.0.8")
	if got := ClientIP(r); got != "10.0.0.8" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.1" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestSignIn_PerEmail(t *testing.T) {
	s := NewSignIn()
	r := httptest.NewRequest("POST", "/auth/signin", nil)

	for i := 0; i < 5; i++ {
		if err := s.Check(r, "Ana@Example.com"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := s.Check(r, "ana@example.com"); !errors.Is(err, apperr.ErrRateLimited) {
		t.Fatalf("sixth attempt: got %v, want ErrRateLimited", err)
	}

	s.Succeeded("ANA@example.com")
	if err := s.Check(r, "ana@example.com"); err != nil {
		t.Fatalf("after success: %v", err)
	}
}
