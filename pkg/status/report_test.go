package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportEncode(t *testing.T) {
	r := &Report{
		Device:      "truetouch/abc",
		Family:      "truetouch",
		Frames:      12,
		PulseMask:   0x1a,
		PulseActive: 4,
		UptimeMs:    1000,
	}
	data, err := r.Encode()
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, r, decoded)
}

func TestReportNegativeActive(t *testing.T) {
	data, err := (&Report{PulseActive: NoPulse}).Encode()
	require.NoError(t, err)
	// tag 9 zigzag: -1 encodes as 1
	require.Equal(t, []byte{0x48, 0x01}, data)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, NoPulse, decoded.PulseActive)
}

func TestReportReset(t *testing.T) {
	r := &Report{Frames: 3}
	r.Reset()
	require.Equal(t, &Report{}, r)
	require.NotEmpty(t, (&Report{Family: "pinctrl"}).String())
}
