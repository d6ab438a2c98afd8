// Package hal abstracts the pins driving actuators.
package hal

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Direction of a pin.
type Direction uint8

// Directions
const (
	Input Direction = iota
	Output
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Pins is the pin I/O collaborator of actuator banks.
// Pins are addressed by name.
type Pins interface {
	SetLevel(pin string, level gpio.Level) error
	// SetPWM drives the pin with a duty cycle of intensity/255.
	SetPWM(pin string, intensity uint8) error
	ConfigureDirection(pin string, dir Direction) error
}

// PinError reports a failed operation on a pin.
type PinError struct {
	Pin string
	Op  string
	Err error
}

// Error implements error.
func (e *PinError) Error() string {
	return fmt.Sprintf("pin %s: %s: %v", e.Pin, e.Op, e.Err)
}

// Unwrap returns the cause.
func (e *PinError) Unwrap() error {
	return e.Err
}
