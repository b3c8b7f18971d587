package ai

import (
	"sync"
	"time"

	"overspeed/internal/logger"
)

// DefaultLoadDelay is how long the simulated model takes to become ready.
const DefaultLoadDelay = 2 * time.Second

// Loader simulates asynchronous model initialization. There is no model file behind it; the
// delay stands in for fetching and compiling weights.
type Loader struct {
	delay    time.Duration
	logger   *logger.Logger
	onChange func()

	mu      sync.Mutex
	timer   *time.Timer
	loading bool
	loaded  bool
	closed  bool
}

// NewLoader creates a Loader. onChange, if not nil, runs after every state transition,
// outside the loader's lock.
func NewLoader(delay time.Duration, logger *logger.Logger, onChange func()) *Loader {
	if delay < 0 {
		delay = DefaultLoadDelay
	}
	return &Loader{
		delay:    delay,
		logger:   logger,
		onChange: onChange,
	}
}

// Initialize marks the model as loading and schedules completion after the configured delay.
// Calling it again while loading or after load is a no-op.
func (l *Loader) Initialize() {
	l.mu.Lock()
	if l.closed || l.loading || l.loaded {
		l.mu.Unlock()
		return
	}
	l.loading = true
	l.timer = time.AfterFunc(l.delay, l.complete)
	l.mu.Unlock()

	l.logger.Info("🤖 Loading detection model (%v)", l.delay)
	l.notify()
}

func (l *Loader) complete() {
	l.mu.Lock()
	if l.closed {
		// torn down while the timer was in flight
		l.mu.Unlock()
		return
	}
	l.loading = false
	l.loaded = true
	l.timer = nil
	l.mu.Unlock()

	l.logger.Info("🤖 Detection model loaded")
	l.notify()
}

func (l *Loader) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Loaded reports whether initialization has completed.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Loading reports whether initialization is in progress.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Close cancels a pending initialization. After Close the loader never changes state again.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
