// Package clock provides time and timer scheduling for components that run
// on a single event-loop goroutine.
//
// Timer callbacks created through Loop are never run on the timer's own
// goroutine. They are handed to a post function which is expected to deliver
// them to the loop, so callbacks are serialized with input handling and need
// no locking. Stopping a timer from the loop guarantees its callback will not
// run, even if the underlying runtime timer already fired and the callback
// is queued.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock reads the current time and schedules callbacks.
type Clock interface {
	// Now returns the current time. Readings carry a monotonic component
	// so differences are immune to wall-clock changes.
	Now() time.Time

	// AfterFunc schedules fn to run once after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	// Calling Stop more than once is safe.
	Stop() bool
}

// PostFunc delivers a callback to the event loop.
type PostFunc func(fn func())

// Loop is the production Clock. Callbacks are delivered through post.
type Loop struct {
	post PostFunc
}

// NewLoop creates a Clock that delivers timer callbacks through post.
// A nil post runs callbacks directly on the timer goroutine.
func NewLoop(post PostFunc) *Loop {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Loop{post: post}
}

// Now returns time.Now().
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			// Stop may have run on the loop between firing and delivery
			if t.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
