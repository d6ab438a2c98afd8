// Package bitset provides the 32-bit actuator mask used on the wire.
package bitset

import "math/bits"

// Mask is a set of actuator indices, bit n addresses actuator n.
type Mask uint32

// Width is the number of addressable indices in a Mask.
const Width = 32

// Of builds a Mask from indices. Indices outside 0..31 are ignored.
func Of(indices ...int) Mask {
	var m Mask
	for _, n := range indices {
		if n >= 0 && n < Width {
			m |= 1 << uint(n)
		}
	}
	return m
}

// Range returns the Mask with the lowest count bits set.
func Range(count int) Mask {
	if count <= 0 {
		return 0
	}
	if count >= Width {
		return ^Mask(0)
	}
	return Mask(1)<<uint(count) - 1
}

// IsSet tests bit n of m. It's false for n > 31.
func IsSet(m Mask, n uint) bool {
	if n > Width-1 {
		return false
	}
	return m&(1<<n) != 0
}

// IsSet tests bit n.
func (m Mask) IsSet(n uint) bool {
	return IsSet(m, n)
}

// Highest returns the index of the most significant set bit.
// Actuators are serviced from the highest index down.
func (m Mask) Highest() (int, bool) {
	if m == 0 {
		return -1, false
	}
	return bits.Len32(uint32(m)) - 1, true
}

// ClearHighest clears the bit reported by Highest.
func (m Mask) ClearHighest() Mask {
	if n, ok := m.Highest(); ok {
		return m &^ (1 << uint(n))
	}
	return m
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Indices lists set bits in descending order.
func (m Mask) Indices() []int {
	indices := make([]int, 0, m.Count())
	for n, ok := m.Highest(); ok; n, ok = m.Highest() {
		indices = append(indices, n)
		m = m.ClearHighest()
	}
	return indices
}

// FixByteOrder reverses the byte order of a wire field.
// The wire is big-endian and hosts are little-endian, so it always swaps.
func FixByteOrder(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}
