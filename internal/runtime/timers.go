// Package runtime provides the tick-driven scheduler used by the helpers.
// This file contains the timer and next-frame queue implementation.
package runtime

import (
	"sort"
	"sync"
)

// timer represents a scheduled callback
type timer struct {
	id        uint64
	interval  float64
	remaining float64
	repeating bool
	callback  func()
	stopped   bool
}

// Scheduler runs deferred work on the host's simulation tick.
// Nothing runs until Tick is called; callbacks always execute on the
// goroutine that calls Tick.
type Scheduler struct {
	mu     sync.Mutex
	timers map[uint64]*timer
	nextID uint64
	frame  []func()
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[uint64]*timer),
	}
}

// CreateTimer creates a new timer firing after interval seconds of ticks.
// Returns the timer ID, or 0 if the callback is nil or the interval is not positive.
func (s *Scheduler) CreateTimer(interval float64, repeating bool, callback func()) uint64 {
	if callback == nil || interval <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.timers[s.nextID] = &timer{
		id:        s.nextID,
		interval:  interval,
		remaining: interval,
		repeating: repeating,
		callback:  callback,
	}
	return s.nextID
}

// StopTimer stops a timer by ID
func (s *Scheduler) StopTimer(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.stopped = true
		delete(s.timers, id)
	}
}

// NextFrame queues fn for the next Tick. Work queued while a tick is
// running is deferred to the following tick.
func (s *Scheduler) NextFrame(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.frame = append(s.frame, fn)
	s.mu.Unlock()
}

// Tick advances the scheduler by deltaTime seconds. The next-frame queue
// runs first, then due timers fire in creation order.
func (s *Scheduler) Tick(deltaTime float64) {
	s.mu.Lock()
	frame := s.frame
	s.frame = nil
	s.mu.Unlock()

	for _, fn := range frame {
		SafeCall("next frame", fn)
	}

	s.processTimers(deltaTime)
}

// processTimers updates remaining time and fires due timers outside the lock
func (s *Scheduler) processTimers(deltaTime float64) {
	s.mu.Lock()
	var toFire []*timer
	for id, t := range s.timers {
		if t.stopped {
			delete(s.timers, id)
			continue
		}

		t.remaining -= deltaTime
		if t.remaining <= 0 {
			toFire = append(toFire, t)
			if t.repeating {
				t.remaining = t.interval
			} else {
				delete(s.timers, id)
			}
		}
	}
	s.mu.Unlock()

	sort.Slice(toFire, func(i, j int) bool { return toFire[i].id < toFire[j].id })

	for _, t := range toFire {
		s.mu.Lock()
		stopped := t.stopped
		s.mu.Unlock()
		// An earlier callback in this tick may have stopped it
		if stopped {
			continue
		}
		SafeCall("timer", t.callback)
	}
}

// TimerCount returns the number of active timers
func (s *Scheduler) TimerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// PendingFrames returns the number of callbacks waiting for the next tick
func (s *Scheduler) PendingFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frame)
}

// Clear stops all timers and drops queued frame work
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.stopped = true
	}
	s.timers = make(map[uint64]*timer)
	s.frame = nil
}
