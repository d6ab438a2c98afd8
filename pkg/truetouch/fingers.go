package truetouch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/truetouch/pkg/bitset"
)

// Finger addresses an actuator by the finger it touches.
type Finger int

// Fingers
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	Palm
)

// Actuator counts.
const (
	SolenoidCount = 5
	ERMCount      = 6
)

var fingerNames = []string{"thumb", "index", "middle", "ring", "pinky", "palm"}

// String implements fmt.Stringer.
func (f Finger) String() string {
	if f >= 0 && int(f) < len(fingerNames) {
		return fingerNames[f]
	}
	return "Finger(" + strconv.Itoa(int(f)) + ")"
}

// ParseFinger accepts a finger name (case insensitive) or an index.
func ParseFinger(s string) (Finger, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for n, fn := range fingerNames {
		if fn == name {
			return Finger(n), nil
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 || n >= bitset.Width {
		return 0, fmt.Errorf("invalid finger %q", s)
	}
	return Finger(n), nil
}

// Fingers builds a mask from fingers.
func Fingers(fingers ...Finger) bitset.Mask {
	indices := make([]int, len(fingers))
	for n, f := range fingers {
		indices[n] = int(f)
	}
	return bitset.Of(indices...)
}

// ParseFingers parses a list of fingers separated by commas or spaces.
// "all" selects the whole 32-bit range.
func ParseFingers(args ...string) (bitset.Mask, error) {
	var mask bitset.Mask
	for _, arg := range args {
		for _, s := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			if strings.EqualFold(s, "all") {
				mask |= bitset.Range(bitset.Width)
				continue
			}
			f, err := ParseFinger(s)
			if err != nil {
				return 0, err
			}
			mask |= Fingers(f)
		}
	}
	return mask, nil
}
