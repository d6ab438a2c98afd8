package actuator

import (
	"errors"
	"fmt"

	"github.com/robotalks/truetouch/pkg/bitset"
)

var (
	// ErrIndexOutOfRange indicates an index beyond the bank.
	ErrIndexOutOfRange = errors.New("actuator index out of range")
)

// BindingError reports an invalid bank binding.
type BindingError struct {
	Bank  string
	Count int
}

// Error implements error.
func (e *BindingError) Error() string {
	return fmt.Sprintf("bank %s: %d pins bound, at most %d allowed", e.Bank, e.Count, bitset.Width)
}
