package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"overspeed/internal/logger"
)

// readRetryDelay spaces out reads after a failed frame.
const readRetryDelay = 100 * time.Millisecond

// Session owns the single active capture stream. The zero value is not usable; use NewSession.
type Session struct {
	opener      Opener
	constraints Constraints
	logger      *logger.Logger
	onFrame     func()

	mu     sync.RWMutex
	device Device
	latest image.Image
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates a Session. onFrame, if not nil, runs after each captured frame.
func NewSession(opener Opener, constraints Constraints, logger *logger.Logger, onFrame func()) *Session {
	return &Session{
		opener:      opener,
		constraints: constraints,
		logger:      logger,
		onFrame:     onFrame,
	}
}

// Start acquires the capture stream. If a stream is already active Start does nothing.
// On failure the session stays off and the returned error wraps ErrCaptureUnavailable.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		return nil
	}

	device, err := s.opener.Open(ctx, s.constraints)
	if err != nil {
		s.logger.Error("Error accessing camera: %v", err)
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	w, h := device.Size()
	s.logger.Info("📷 Camera started %dx%d (requested %dx%d, facing %s)",
		w, h, s.constraints.Width, s.constraints.Height, s.constraints.FacingMode)

	captureCtx, cancel := context.WithCancel(context.Background())
	s.device = device
	s.latest = nil
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.capture(captureCtx, device, s.done)
	return nil
}

func (s *Session) capture(ctx context.Context, device Device, done chan struct{}) {
	defer close(done)

	for {
		if ctx.Err() != nil {
			return
		}
		frame, err := device.Frame()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return
			}
			s.logger.Warning("Error reading camera frame: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		s.mu.Lock()
		if s.device == device {
			s.latest = frame
		}
		s.mu.Unlock()

		if s.onFrame != nil {
			s.onFrame()
		}
	}
}

// Stop releases the capture stream and waits for the capture goroutine to exit.
// It is safe to call when the session is already off.
func (s *Session) Stop() {
	s.mu.Lock()
	device, cancel, done := s.device, s.cancel, s.done
	s.device = nil
	s.latest = nil
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if device == nil {
		return
	}

	cancel()
	if err := device.Close(); err != nil {
		s.logger.Warning("Error closing camera: %v", err)
	}
	<-done
	s.logger.Info("📷 Camera stopped")
}

// On reports whether a capture stream is active.
func (s *Session) On() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device != nil
}

// Size returns the active stream's frame size, or zeros when off.
func (s *Session) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.device == nil {
		return 0, 0
	}
	return s.device.Size()
}

// Latest returns the most recent frame, if the session is on and a frame has arrived.
func (s *Session) Latest() (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, false
	}
	return s.latest, true
}
