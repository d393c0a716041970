package reconcile

import "sync/atomic"

// Clock hands out strictly increasing event sequence numbers.
//
// Event order across concurrently loading collections is decided by the
// order Reporter calls are serialized in; the clock makes that order
// explicit in the trace.
//
// Thread-safety: Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last sequence number handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
