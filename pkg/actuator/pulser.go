package actuator

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/truetouch/pkg/bitset"
	"github.com/robotalks/truetouch/pkg/framework"
)

// Pulser activates the actuators of a mask one at a time, highest index
// first, each for the same duration. Only one pulse job exists at a time:
// a new trigger replaces the running job.
type Pulser struct {
	Bank  *Bank
	Clock framework.Clock

	mask     bitset.Mask
	duration uint32
	start    uint32
	lock     sync.Mutex
}

// NewPulser creates a Pulser.
func NewPulser(bank *Bank, clock framework.Clock) *Pulser {
	return &Pulser{Bank: bank, Clock: clock}
}

// Trigger starts a pulse job. A zero mask is ignored and leaves a running
// job untouched. If the highest selected index is outside the bank, the
// job is aborted without activating anything.
func (p *Pulser) Trigger(mask bitset.Mask, durationMs uint32) error {
	if mask == 0 {
		glog.V(1).Infof("pulse %s: empty mask ignored", p.Bank.Name)
		return nil
	}
	p.lock.Lock()
	defer p.lock.Unlock()

	var errs framework.AggregatedError
	if current, ok := p.mask.Highest(); ok {
		glog.V(1).Infof("pulse %s: retriggered, stop %d", p.Bank.Name, current)
		errs.Add(p.Bank.Deactivate(current))
	}
	p.mask, p.duration = mask, durationMs
	top, _ := mask.Highest()
	if !p.Bank.Valid(top) {
		glog.Warningf("pulse %s: index %d out of range, aborted", p.Bank.Name, top)
		p.mask, p.start = 0, 0
		return errs.Aggregate()
	}
	errs.Add(p.Bank.Activate(top))
	p.start = p.Clock.Millis()
	return errs.Aggregate()
}

// Service advances the running job.
func (p *Pulser) Service() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	current, ok := p.mask.Highest()
	if !ok {
		return nil
	}
	now := p.Clock.Millis()
	if now-p.start < p.duration {
		return nil
	}

	var errs framework.AggregatedError
	errs.Add(p.Bank.Deactivate(current))
	p.mask = p.mask.ClearHighest()
	next, ok := p.mask.Highest()
	if !ok {
		glog.V(1).Infof("pulse %s: done", p.Bank.Name)
		p.start = 0
		return errs.Aggregate()
	}
	if !p.Bank.Valid(next) {
		glog.Warningf("pulse %s: index %d out of range, aborted", p.Bank.Name, next)
		p.mask, p.start = 0, 0
		return errs.Aggregate()
	}
	errs.Add(p.Bank.Activate(next))
	p.start = now
	return errs.Aggregate()
}

// PulseState is a consistent view of the running job.
type PulseState struct {
	Remaining  bitset.Mask
	// Active is the index being held, -1 when idle.
	Active     int
	DurationMs uint32
	StartMs    uint32
}

// Snapshot returns the job state taken under one lock.
func (p *Pulser) Snapshot() PulseState {
	p.lock.Lock()
	defer p.lock.Unlock()
	active, _ := p.mask.Highest()
	return PulseState{
		Remaining:  p.mask,
		Active:     active,
		DurationMs: p.duration,
		StartMs:    p.start,
	}
}

// Idle tells if no job is running.
func (p *Pulser) Idle() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.mask == 0
}

// Remaining returns the indices not yet finished, including the active one.
func (p *Pulser) Remaining() bitset.Mask {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.mask
}

// Active returns the index being held.
func (p *Pulser) Active() (int, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.mask.Highest()
}

// Duration returns the hold time of the running job.
func (p *Pulser) Duration() uint32 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.duration
}
