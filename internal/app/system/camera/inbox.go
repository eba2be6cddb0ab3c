package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Inbox is a Device whose frames are pushed in by the caller. Capture
// waits for the next pushed frame and spools it to
// <dir>/photo_<unix-millis>.jpg.
type Inbox struct {
	dir string
	log *zap.Logger
	now func() time.Time

	mu       sync.Mutex
	bound    bool
	lens     Lens
	frames   chan []byte
	released chan struct{}
}

// NewInbox returns an unbound Inbox spooling into dir.
func NewInbox(dir string, log *zap.Logger) *Inbox {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inbox{dir: dir, log: log, now: time.Now, frames: make(chan []byte, 1)}
}

// Push offers a frame for the next Capture. A frame that was never captured
// is replaced.
func (in *Inbox) Push(frame []byte) error {
	if len(frame) == 0 {
		return errors.New("empty frame")
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.bound {
		return ErrNotBound
	}
	select {
	case <-in.frames:
	default:
	}
	in.frames <- frame
	return nil
}

func (in *Inbox) Bind(ctx context.Context, lens Lens) error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return fmt.Errorf("camera spool: %w", err)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.bound {
		in.released = make(chan struct{})
	}
	in.bound = true
	in.lens = lens
	in.log.Debug("camera bound", zap.String("lens", string(lens)))
	return nil
}

// Lens returns the lens currently bound, or "" when unbound.
func (in *Inbox) Lens() Lens {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.bound {
		return ""
	}
	return in.lens
}

func (in *Inbox) Capture(ctx context.Context) (string, error) {
	in.mu.Lock()
	bound, released := in.bound, in.released
	in.mu.Unlock()
	if !bound {
		return "", ErrNotBound
	}

	var frame []byte
	select {
	case frame = <-in.frames:
	case <-released:
		return "", ErrNotBound
	case <-ctx.Done():
		return "", ctx.Err()
	}

	path := filepath.Join(in.dir, fmt.Sprintf("photo_%d.jpg", in.now().UnixMilli()))
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		return "", fmt.Errorf("write capture: %w", err)
	}
	return path, nil
}

func (in *Inbox) Release() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.bound {
		return nil
	}
	in.bound = false
	close(in.released)
	select {
	case <-in.frames:
	default:
	}
	in.log.Debug("camera released")
	return nil
}

// Bound reports whether the device currently holds the camera.
func (in *Inbox) Bound() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.bound
}
