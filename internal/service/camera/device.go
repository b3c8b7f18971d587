package camera

import (
	"context"
	"errors"
	"image"
)

// ErrCaptureUnavailable is returned when no capture stream could be acquired: the device is
// missing, busy, or access was denied.
var ErrCaptureUnavailable = errors.New("capture device unavailable")

// ErrClosed is returned by devices read after Close.
var ErrClosed = errors.New("capture device closed")

// Constraints describes the stream requested from a capture device.
type Constraints struct {
	Width      int
	Height     int
	FacingMode string
}

// DefaultConstraints asks for a 1280x720 rear-facing stream.
func DefaultConstraints() Constraints {
	return Constraints{Width: 1280, Height: 720, FacingMode: "environment"}
}

// Device is an open capture stream.
type Device interface {
	// Frame blocks until the next frame is available.
	Frame() (image.Image, error)
	// Size returns the negotiated frame size, which may differ from the requested one.
	Size() (width, height int)
	Close() error
}

// Opener acquires capture devices.
type Opener interface {
	Open(ctx context.Context, c Constraints) (Device, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, c Constraints) (Device, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, c Constraints) (Device, error) {
	return f(ctx, c)
}
