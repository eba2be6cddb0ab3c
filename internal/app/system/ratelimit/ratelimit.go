// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/waffle/pantry/text"
)

// Limiter counts hits per key in fixed windows. Safe for concurrent use.
// Expired windows are swept lazily on Allow, so there is no background
// goroutine to stop.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	count   int
	expires time.Time
}

// New allows limit hits per key in each window of length d.
func New(limit int, d time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		window:  d,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	w, ok := l.windows[key]
	if !ok || !now.Before(w.expires) {
		l.windows[key] = &window{count: 1, expires: now.Add(l.window)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key, e.g. after a successful sign-in.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Len is the number of keys currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < 2*l.window {
		return
	}
	l.lastSweep = now
	for k, w := range l.windows {
		if !now.Before(w.expires) {
			delete(l.windows, k)
		}
	}
}

// ClientIP returns the caller's address, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SignIn guards the credential endpoints per client address and per
// account email.
type SignIn struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewSignIn allows 10 attempts per address per minute and 5 per email per
// five minutes.
func NewSignIn() *SignIn {
	return &SignIn{byIP: New(10, time.Minute), byEmail: New(5, 5*time.Minute)}
}

// Check returns apperr.ErrRateLimited when r or email is over its limit.
// An empty email is only counted against the address.
func (s *SignIn) Check(r *http.Request, email string) error {
	if !s.byIP.Allow(ClientIP(r)) {
		return apperr.ErrRateLimited
	}
	if key := text.Fold(strings.TrimSpace(email)); key != "" && !s.byEmail.Allow(key) {
		return apperr.ErrRateLimited
	}
	return nil
}

// Succeeded clears the email counter after a good sign-in.
func (s *SignIn) Succeeded(email string) {
	if key := text.Fold(strings.TrimSpace(email)); key != "" {
		s.byEmail.Reset(key)
	}
}
