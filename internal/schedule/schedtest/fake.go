// Package schedtest provides a manually driven Scheduler for tests.
package schedtest

import (
	"sync"
	"time"

	"github.com/genricoloni/island/internal/schedule"
)

// Fake is a Scheduler whose clock only moves on Advance.
// Callbacks run on the goroutine calling Advance.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
	nextID int
}

var _ schedule.Scheduler = (*Fake)(nil)

// New returns a fake clock starting at start
func New(start time.Time) *Fake {
	return &Fake{now: start}
}

type timer struct {
	fake    *Fake
	id      int
	when    time.Time
	every   time.Duration
	fn      func()
	stopped bool
}

func (t *timer) Stop() {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()
	t.stopped = true
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) schedule.Timer {
	return f.add(d, 0, fn)
}

func (f *Fake) Every(d time.Duration, fn func()) schedule.Timer {
	return f.add(d, d, fn)
}

func (f *Fake) add(d, every time.Duration, fn func()) *timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := &timer{fake: f, id: f.nextID, when: f.now.Add(d), every: every, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline order
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.earliest(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.when
		if next.every > 0 {
			next.when = next.when.Add(next.every)
		} else {
			next.stopped = true
		}
		fn := next.fn
		f.prune()
		f.mu.Unlock()

		fn()
	}
}

// Pending returns the number of live timers
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune()
	return len(f.timers)
}

func (f *Fake) earliest(limit time.Time) *timer {
	var best *timer
	for _, t := range f.timers {
		if t.stopped || t.when.After(limit) {
			continue
		}
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (f *Fake) prune() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}
