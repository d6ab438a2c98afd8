package framework

import (
	"sync/atomic"
	"time"
)

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a SystemClock starting at 0.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Millis implements Clock. The counter wraps after about 49 days.
func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

// ManualClock only moves when told to.
type ManualClock struct {
	now uint32
}

// Millis implements Clock.
func (c *ManualClock) Millis() uint32 {
	return atomic.LoadUint32(&c.now)
}

// Set sets the current time.
func (c *ManualClock) Set(ms uint32) {
	atomic.StoreUint32(&c.now, ms)
}

// Advance moves the clock forward, wrapping at 2^32.
func (c *ManualClock) Advance(ms uint32) uint32 {
	return atomic.AddUint32(&c.now, ms)
}
