package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSet(t *testing.T) {
	m := Of(0, 2, 31)
	require.True(t, m.IsSet(0))
	require.False(t, m.IsSet(1))
	require.True(t, m.IsSet(2))
	require.True(t, IsSet(m, 31))
	require.False(t, IsSet(^Mask(0), 32))
	require.False(t, IsSet(^Mask(0), 100))
}

func TestOf(t *testing.T) {
	require.Equal(t, Mask(0x05), Of(0, 2))
	require.Equal(t, Mask(0x05), Of(2, 0, 2))
	require.Equal(t, Mask(0), Of(-1, 32, 40))
	require.Equal(t, Mask(0x80000000), Of(31))
}

func TestRange(t *testing.T) {
	require.Equal(t, Mask(0), Range(0))
	require.Equal(t, Mask(0), Range(-3))
	require.Equal(t, Mask(0x1f), Range(5))
	require.Equal(t, Mask(0x3f), Range(6))
	require.Equal(t, ^Mask(0), Range(32))
	require.Equal(t, ^Mask(0), Range(64))
}

func TestHighest(t *testing.T) {
	testCases := []struct {
		name   string
		mask   Mask
		expect int
		ok     bool
	}{
		{"empty", 0, -1, false},
		{"lowest", 1, 0, true},
		{"highest", 0x80000001, 31, true},
		{"middle", 0x0000f000, 15, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.mask.Highest()
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expect, n)
		})
	}
}

func TestClearHighest(t *testing.T) {
	require.Equal(t, Mask(0), Mask(0).ClearHighest())
	require.Equal(t, Mask(0x0a), Mask(0x1a).ClearHighest())
	require.Equal(t, Mask(0x7fffffff), (^Mask(0)).ClearHighest())
}

func TestDrainDescending(t *testing.T) {
	masks := []Mask{0, 1, 0x1a, 0xdeadbeef, ^Mask(0), 0x80000000}
	for _, count := range []int{5, 6, 32} {
		for _, m := range masks {
			m = m & Range(count)
			prev, steps := Width, 0
			for n, ok := m.Highest(); ok; n, ok = m.Highest() {
				require.True(t, n < prev, "mask %x visited %d after %d", m, n, prev)
				require.True(t, n < count)
				prev = n
				m = m.ClearHighest()
				steps++
			}
			require.Equal(t, Mask(0), m)
			require.True(t, steps <= count)
		}
	}
}

func TestIndices(t *testing.T) {
	require.Equal(t, []int{4, 3, 1}, Of(1, 3, 4).Indices())
	require.Empty(t, Mask(0).Indices())
	require.Equal(t, 3, Of(1, 3, 4).Count())
}

func TestFixByteOrder(t *testing.T) {
	require.Equal(t, uint32(0x78563412), FixByteOrder(0x12345678))
	for _, v := range []uint32{0, 1, 0xff, 0x12345678, 0xdeadbeef, 0xffffffff} {
		require.Equal(t, v, FixByteOrder(FixByteOrder(v)))
	}
}
