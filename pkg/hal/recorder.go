package hal

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
)

// OpKind names a recorded operation.
type OpKind string

// Recorded operations
const (
	OpLevel     OpKind = "level"
	OpPWM       OpKind = "pwm"
	OpDirection OpKind = "direction"
)

// Op is a recorded pin operation.
type Op struct {
	Kind      OpKind
	Pin       string
	Level     gpio.Level
	Intensity uint8
	Direction Direction
}

// String implements fmt.Stringer.
func (o Op) String() string {
	switch o.Kind {
	case OpLevel:
		return fmt.Sprintf("%s=%s", o.Pin, o.Level)
	case OpPWM:
		return fmt.Sprintf("%s=pwm(%d)", o.Pin, o.Intensity)
	}
	return fmt.Sprintf("%s=%s", o.Pin, o.Direction)
}

// PinState is the last known state of a pin.
type PinState struct {
	Level     gpio.Level
	Intensity uint8
	Direction Direction
}

// Recorder is an in-memory Pins.
type Recorder struct {
	// Errors fails operations on the named pins.
	Errors map[string]error

	ops    []Op
	states map[string]PinState
	lock   sync.Mutex
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetLevel implements Pins.
func (r *Recorder) SetLevel(pin string, level gpio.Level) error {
	return r.record(Op{Kind: OpLevel, Pin: pin, Level: level}, func(s *PinState) {
		s.Level, s.Intensity = level, 0
	})
}

// SetPWM implements Pins.
func (r *Recorder) SetPWM(pin string, intensity uint8) error {
	return r.record(Op{Kind: OpPWM, Pin: pin, Intensity: intensity}, func(s *PinState) {
		s.Intensity, s.Level = intensity, intensity > 0
	})
}

// ConfigureDirection implements Pins.
func (r *Recorder) ConfigureDirection(pin string, dir Direction) error {
	return r.record(Op{Kind: OpDirection, Pin: pin, Direction: dir}, func(s *PinState) {
		s.Direction = dir
		if dir == Output {
			s.Level, s.Intensity = gpio.Low, 0
		}
	})
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Op(nil), r.ops...)
}

// State returns the last state of a pin.
func (r *Recorder) State(pin string) (PinState, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	s, ok := r.states[pin]
	return s, ok
}

// Reset forgets recorded operations but keeps the state.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.ops = nil
	r.lock.Unlock()
}

func (r *Recorder) record(op Op, apply func(*PinState)) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.Errors[op.Pin]; err != nil {
		return &PinError{Pin: op.Pin, Op: string(op.Kind), Err: err}
	}
	r.ops = append(r.ops, op)
	if r.states == nil {
		r.states = make(map[string]PinState)
	}
	s := r.states[op.Pin]
	apply(&s)
	r.states[op.Pin] = s
	glog.V(2).Infof("record %s", op)
	return nil
}
