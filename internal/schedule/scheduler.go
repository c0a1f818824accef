// Package schedule provides the timers the island runs on.
package schedule

import (
	"sync"
	"time"
)

// Timer is a handle to a pending one-shot or repeating callback
type Timer interface {
	// Stop cancels the timer. It is safe to call more than once.
	Stop()
}

// Scheduler creates timers and reports the current time
type Scheduler interface {
	Now() time.Time

	// AfterFunc calls f once, after d, on its own goroutine
	AfterFunc(d time.Duration, f func()) Timer

	// Every calls f every d until the returned timer is stopped
	Every(d time.Duration, f func()) Timer
}

// Real is the wall-clock Scheduler
type Real struct{}

// NewReal returns the wall-clock scheduler
func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return oneShot{time.AfterFunc(d, f)}
}

func (Real) Every(d time.Duration, f func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

type oneShot struct {
	t *time.Timer
}

func (o oneShot) Stop() {
	o.t.Stop()
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) run(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

func (t *ticker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
