// Package camera defines the capture device and permission gate the capture
// pipeline drives, plus an inbox-backed device for frames that arrive over
// HTTP from the client.
package camera

import (
	"context"
	"errors"
)

// Lens selects the physical camera.
type Lens string

const (
	LensBack  Lens = "back"
	LensFront Lens = "front"
)

// Other returns the opposite lens.
func (l Lens) Other() Lens {
	if l == LensFront {
		return LensBack
	}
	return LensFront
}

// ErrNotBound is returned by Capture before Bind or after Release.
var ErrNotBound = errors.New("camera not bound")

// Device is a camera that can be bound to a lens, capture a still image to
// a local file, and be released. Release must be safe to call repeatedly.
type Device interface {
	Bind(ctx context.Context, lens Lens) error
	Capture(ctx context.Context) (uri string, err error)
	Release() error
}

// Permissions asks the user for camera access.
type Permissions interface {
	Request(ctx context.Context) (granted bool, err error)
}

// StaticPermission answers every request with the same decision.
type StaticPermission bool

func (p StaticPermission) Request(context.Context) (bool, error) {
	return bool(p), nil
}
