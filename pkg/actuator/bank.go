package actuator

import (
	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"

	"github.com/robotalks/truetouch/pkg/bitset"
	"github.com/robotalks/truetouch/pkg/framework"
	"github.com/robotalks/truetouch/pkg/hal"
)

// Bank is a fixed set of actuators of the same kind.
type Bank struct {
	Name string
	Pins hal.Pins

	binding []string
}

// NewBank creates a Bank. binding maps actuator index to pin name.
func NewBank(name string, pins hal.Pins, binding []string) (*Bank, error) {
	if len(binding) > bitset.Width {
		return nil, &BindingError{Bank: name, Count: len(binding)}
	}
	return &Bank{
		Name:    name,
		Pins:    pins,
		binding: append([]string(nil), binding...),
	}, nil
}

// Count returns the number of actuators.
func (b *Bank) Count() int {
	return len(b.binding)
}

// Valid tells if the index addresses an actuator.
func (b *Bank) Valid(index int) bool {
	return index >= 0 && index < len(b.binding)
}

// Pin returns the pin bound to an index.
func (b *Bank) Pin(index int) (string, bool) {
	if !b.Valid(index) {
		return "", false
	}
	return b.binding[index], true
}

// Binding returns a copy of the binding.
func (b *Bank) Binding() []string {
	return append([]string(nil), b.binding...)
}

// Mask returns the valid range as a mask.
func (b *Bank) Mask() bitset.Mask {
	return bitset.Range(len(b.binding))
}

// Write drives every selected actuator to level.
func (b *Bank) Write(mask bitset.Mask, level gpio.Level) error {
	return b.each(mask, func(pin string) error {
		return b.Pins.SetLevel(pin, level)
	})
}

// SetIntensity drives every selected actuator with PWM.
func (b *Bank) SetIntensity(mask bitset.Mask, intensity uint8) error {
	return b.each(mask, func(pin string) error {
		return b.Pins.SetPWM(pin, intensity)
	})
}

// Configure sets the direction of every selected pin.
func (b *Bank) Configure(mask bitset.Mask, dir hal.Direction) error {
	return b.each(mask, func(pin string) error {
		return b.Pins.ConfigureDirection(pin, dir)
	})
}

// Activate drives the actuator at index high.
func (b *Bank) Activate(index int) error {
	pin, ok := b.Pin(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	return b.Pins.SetLevel(pin, gpio.High)
}

// Deactivate drives the actuator at index low.
func (b *Bank) Deactivate(index int) error {
	pin, ok := b.Pin(index)
	if !ok {
		return ErrIndexOutOfRange
	}
	return b.Pins.SetLevel(pin, gpio.Low)
}

// Reset configures every pin as an output driven low.
func (b *Bank) Reset() error {
	var errs framework.AggregatedError
	for _, pin := range b.binding {
		errs.Add(b.Pins.ConfigureDirection(pin, hal.Output))
		errs.Add(b.Pins.SetLevel(pin, gpio.Low))
	}
	return errs.Aggregate()
}

// each visits selected actuators in ascending order. Bits beyond the bank
// are ignored.
func (b *Bank) each(mask bitset.Mask, fn func(pin string) error) error {
	var errs framework.AggregatedError
	for n, pin := range b.binding {
		if mask.IsSet(uint(n)) {
			errs.Add(fn(pin))
		}
	}
	if ignored := mask &^ b.Mask(); ignored != 0 {
		glog.V(1).Infof("bank %s: ignored mask bits %#x", b.Name, uint32(ignored))
	}
	return errs.Aggregate()
}
