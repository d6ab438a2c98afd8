package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame indicates fewer bytes than the opcode requires.
	ErrShortFrame = errors.New("short frame")
	// ErrReserved indicates the opcode is reserved and has no frame layout.
	ErrReserved = errors.New("reserved opcode")
)

// UnknownOpcodeError reports an opcode absent from a codec.
type UnknownOpcodeError struct {
	Codec  string
	Opcode Opcode
}

// Error implements error.
func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%s: unknown opcode 0x%02x", e.Codec, byte(e.Opcode))
}
