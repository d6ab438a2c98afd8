package framework

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Servicer is stepped once per loop iteration. Service must not block.
type Servicer interface {
	Service() error
}

// ServiceFunc is the func form of Servicer.
type ServiceFunc func() error

// Service implements Servicer.
func (f ServiceFunc) Service() error {
	return f()
}

// Clock provides a wrapping millisecond counter.
type Clock interface {
	Millis() uint32
}

// LoopControl exposes access to the servicing loop.
type LoopControl interface {
	// TriggerNext schedules the next iteration to be executed
	// immediately after the current iteration.
	TriggerNext()
}
