// Package scheduler runs a function once per interval on a single goroutine and hands back a
// handle that stops it deterministically.
package scheduler

import (
	"fmt"
	"sync"
	"time"
)

// Task is a running periodic job. Calls to its function never overlap.
type Task struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	onPanic  func(err error)
}

// Option configures a Task.
type Option func(*Task)

// OnPanic registers a hook that receives a recovered panic from the task function.
// The task keeps running after a panic.
func OnPanic(fn func(err error)) Option {
	return func(t *Task) {
		t.onPanic = fn
	}
}

// Every starts fn on its own goroutine, invoked with the tick time once per interval.
func Every(interval time.Duration, fn func(now time.Time), opts ...Option) *Task {
	t := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	go t.run(interval, fn)
	return t
}

func (t *Task) run(interval time.Duration, fn func(now time.Time)) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			// stop may have been signalled while the tick was pending
			select {
			case <-t.stop:
				return
			default:
			}
			t.invoke(fn, now)
		}
	}
}

func (t *Task) invoke(fn func(now time.Time), now time.Time) {
	defer func() {
		if r := recover(); r != nil && t.onPanic != nil {
			t.onPanic(fmt.Errorf("task panic: %v", r))
		}
	}()
	fn(now)
}

// Stop signals the task to exit without waiting. It is safe to call from inside the task
// function and more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Cancel stops the task and waits for its goroutine to exit. Once Cancel returns no further
// call of the task function will begin. Must not be called from inside the task function.
func (t *Task) Cancel() {
	t.Stop()
	<-t.done
}

// Done is closed when the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
