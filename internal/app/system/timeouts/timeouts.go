// Package timeouts provides the deadlines applied to remote calls.
//
// Every call into the document store, object storage, or the camera device
// runs under one of these values via context.WithTimeout. Values can be
// overridden at startup with Configure; otherwise the defaults apply.
//
//   - Ping: health checks and connectivity verification
//   - Read: list and get-by-id calls
//   - Write: single-record creates and replacements
//   - Migrate: one whole migration run across every kind
//   - Step: one blocking pipeline step (bind, capture, edit, upload)
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing    = 2 * time.Second
	DefaultRead    = 5 * time.Second
	DefaultWrite   = 10 * time.Second
	DefaultMigrate = 60 * time.Second
	DefaultStep    = 15 * time.Second
)

var mu sync.RWMutex

var (
	ping    = DefaultPing
	read    = DefaultRead
	write   = DefaultWrite
	migrate = DefaultMigrate
	step    = DefaultStep
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Read returns the timeout for list and lookup calls.
func Read() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return read
}

// Write returns the timeout for single-record writes.
func Write() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return write
}

// Migrate returns the timeout for a full migration run.
func Migrate() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return migrate
}

// Step returns the timeout for a single capture pipeline step.
func Step() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return step
}

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping    time.Duration
	Read    time.Duration
	Write   time.Duration
	Migrate time.Duration
	Step    time.Duration
}

// Configure applies the non-zero values in cfg. Call it during startup
// before any store is used.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Read > 0 {
		read = cfg.Read
	}
	if cfg.Write > 0 {
		write = cfg.Write
	}
	if cfg.Migrate > 0 {
		migrate = cfg.Migrate
	}
	if cfg.Step > 0 {
		step = cfg.Step
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	read = DefaultRead
	write = DefaultWrite
	migrate = DefaultMigrate
	step = DefaultStep
}

// Current returns the values in effect, for logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Read: read, Write: write, Migrate: migrate, Step: step}
}

// WithTimeout derives a context with timeout whose cancel func logs a
// warning when the deadline was the reason the operation ended.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Migrate(), log, "migrate events")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
