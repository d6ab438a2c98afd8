package hal

import "errors"

var (
	// ErrNoPin indicates the pin name is not registered.
	ErrNoPin = errors.New("no such pin")
)
