package sh

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/truetouch/pkg/bitset"
	"github.com/robotalks/truetouch/pkg/protocol"
	"github.com/robotalks/truetouch/pkg/truetouch"
)

// FrameBuilder builds a frame from command arguments.
type FrameBuilder func(args []string) (protocol.Frame, error)

// ParseMask accepts 0x prefixed masks, indices and finger names.
func ParseMask(arg string) (bitset.Mask, error) {
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0X") {
		v, err := strconv.ParseUint(arg[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid mask %q", arg)
		}
		return bitset.Mask(v), nil
	}
	return truetouch.ParseFingers(arg)
}

func parseUint(arg string, bits int, what string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return v, nil
}

func expectArgs(args []string, min, max int, usage string) error {
	if len(args) < min || len(args) > max {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// optional port is the last argument of pin control commands.
func parsePort(args []string, at int) (uint32, error) {
	if len(args) <= at {
		return 0, nil
	}
	v, err := parseUint(args[at], 32, "port")
	return uint32(v), err
}

// BuildSolenoidWrite parses FINGERS high|low.
func BuildSolenoidWrite(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 2, 2, "write FINGERS high|low"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	f := &protocol.SolenoidWrite{Mask: mask}
	switch strings.ToLower(args[1]) {
	case "high", "on", "1":
		f.Output = protocol.OutHigh
	case "low", "off", "0":
		f.Output = protocol.OutLow
	default:
		return nil, fmt.Errorf("invalid output %q", args[1])
	}
	return f, nil
}

// BuildSolenoidPulse parses FINGERS DURATION_MS.
func BuildSolenoidPulse(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 2, 2, "pulse FINGERS DURATION_MS"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	ms, err := parseUint(args[1], 32, "duration")
	if err != nil {
		return nil, err
	}
	return &protocol.SolenoidPulse{Mask: mask, DurationMs: uint32(ms)}, nil
}

// BuildERMSet parses FINGERS INTENSITY.
func BuildERMSet(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 2, 2, "erm FINGERS INTENSITY"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	v, err := parseUint(args[1], 8, "intensity")
	if err != nil {
		return nil, err
	}
	return &protocol.ERMSet{Mask: mask, Intensity: uint8(v)}, nil
}

// BuildGPIOConfigure parses PINS in|out [PORT].
func BuildGPIOConfigure(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 2, 3, "gpio.config PINS in|out [PORT]"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	f := &protocol.GPIOConfigure{Mask: mask}
	switch strings.ToLower(args[1]) {
	case "in", "input":
		f.Direction = protocol.DirInput
	case "out", "output":
		f.Direction = protocol.DirOutput
	default:
		return nil, fmt.Errorf("invalid direction %q", args[1])
	}
	if f.Port, err = parsePort(args, 2); err != nil {
		return nil, err
	}
	return f, nil
}

// BuildGPIOSet parses PINS [PORT].
func BuildGPIOSet(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 1, 2, "gpio.set PINS [PORT]"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	port, err := parsePort(args, 1)
	if err != nil {
		return nil, err
	}
	return &protocol.GPIOSet{Port: port, Mask: mask}, nil
}

// BuildGPIOClear parses PINS [PORT].
func BuildGPIOClear(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 1, 2, "gpio.clear PINS [PORT]"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	port, err := parsePort(args, 1)
	if err != nil {
		return nil, err
	}
	return &protocol.GPIOClear{Port: port, Mask: mask}, nil
}

// BuildPWMSet parses PINS INTENSITY [PORT].
func BuildPWMSet(args []string) (protocol.Frame, error) {
	if err := expectArgs(args, 2, 3, "pwm PINS INTENSITY [PORT]"); err != nil {
		return nil, err
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return nil, err
	}
	v, err := parseUint(args[1], 8, "intensity")
	if err != nil {
		return nil, err
	}
	port, err := parsePort(args, 2)
	if err != nil {
		return nil, err
	}
	return &protocol.PWMSet{Port: port, Mask: mask, Intensity: uint8(v)}, nil
}

// RawFrame is a frame of arbitrary bytes.
type RawFrame []byte

// Opcode implements protocol.Frame.
func (f RawFrame) Opcode() protocol.Opcode {
	if len(f) == 0 {
		return 0
	}
	return protocol.Opcode(f[0])
}

// Bytes implements protocol.Frame.
func (f RawFrame) Bytes() []byte { return f }

// BuildRaw parses hex bytes, e.g. "01 00000005 01".
func BuildRaw(args []string) (protocol.Frame, error) {
	data, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("usage: raw HEX...")
	}
	return RawFrame(data), nil
}
