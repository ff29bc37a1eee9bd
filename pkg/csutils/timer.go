package csutils

// Timer represents a scheduled callback
type Timer struct {
	id        uint64
	interval  float64
	repeating bool
	stopped   bool
	scheduler Scheduler
}

// Stop cancels the timer
func (t *Timer) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.scheduler.StopTimer(t.id)
}

// IsStopped returns true if the timer has been stopped
func (t *Timer) IsStopped() bool {
	return t == nil || t.stopped
}

// GetInterval returns the timer's interval in seconds
func (t *Timer) GetInterval() float64 {
	if t == nil {
		return 0
	}
	return t.interval
}

// IsRepeating returns true if this is a repeating timer
func (t *Timer) IsRepeating() bool {
	return t != nil && t.repeating
}

func (c *Context) createTimer(interval float64, repeating bool, callback func()) *Timer {
	if c.scheduler == nil || callback == nil || interval <= 0 {
		return nil
	}
	timer := &Timer{
		interval:  interval,
		repeating: repeating,
		scheduler: c.scheduler,
	}
	timer.id = c.scheduler.CreateTimer(interval, repeating, func() {
		if timer.stopped {
			return
		}
		if !repeating {
			timer.stopped = true
		}
		callback()
	})
	if timer.id == 0 {
		return nil
	}
	return timer
}

// After runs callback once after delay seconds.
// Returns nil without a scheduler.
func (c *Context) After(delay float64, callback func()) *Timer {
	return c.createTimer(delay, false, callback)
}

// Every runs callback every interval seconds until stopped.
// Returns nil without a scheduler.
func (c *Context) Every(interval float64, callback func()) *Timer {
	return c.createTimer(interval, true, callback)
}

// NextFrame runs fn on the next server tick
func (c *Context) NextFrame(fn func()) error {
	return c.nextFrame(fn)
}
