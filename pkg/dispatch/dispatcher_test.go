package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/truetouch/pkg/protocol"
	"github.com/robotalks/truetouch/pkg/uart"
)

type recorder struct {
	frames []protocol.Frame
}

func (r *recorder) handle(f protocol.Frame) {
	r.frames = append(r.frames, f)
}

func newTestDispatcher() (*Dispatcher, *uart.Pipe, *recorder) {
	pipe := uart.NewPipe()
	rec := &recorder{}
	d := New(pipe, protocol.TrueTouch)
	for _, op := range protocol.TrueTouch.Opcodes() {
		d.Handle(op, rec.handle)
	}
	return d, pipe, rec
}

func TestServiceIdle(t *testing.T) {
	d, _, rec := newTestDispatcher()
	require.NoError(t, d.Service())
	require.Empty(t, rec.frames)
	require.Equal(t, Stats{}, d.Stats())
}

func TestServiceOneFramePerCall(t *testing.T) {
	d, pipe, rec := newTestDispatcher()
	pipe.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x05, 0x01})
	pipe.Write([]byte{0x03, 0x00, 0x00, 0x00, 0x01, 0x80})
	require.NoError(t, d.Service())
	require.Len(t, rec.frames, 1)
	require.Equal(t, 6, pipe.Buffered())
	require.NoError(t, d.Service())
	require.Equal(t, []protocol.Frame{
		&protocol.SolenoidWrite{Mask: 0x05, Output: protocol.OutHigh},
		&protocol.ERMSet{Mask: 0x01, Intensity: 0x80},
	}, rec.frames)
	require.Zero(t, pipe.Buffered())
	require.Equal(t, uint64(2), d.Stats().Frames)
}

func TestServiceStarvedConsumesNothing(t *testing.T) {
	d, pipe, rec := newTestDispatcher()
	pipe.Write([]byte{0x02, 0x00, 0x00, 0x00, 0x1a, 0x00, 0x00})
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Service())
		require.Equal(t, 7, pipe.Buffered())
	}
	require.Empty(t, rec.frames)
	require.Equal(t, uint64(3), d.Stats().Starved)
	pipe.Write([]byte{0x01, 0xf4})
	require.NoError(t, d.Service())
	require.Equal(t, []protocol.Frame{
		&protocol.SolenoidPulse{Mask: 0x1a, DurationMs: 500},
	}, rec.frames)
}

func TestFragmentationTransparent(t *testing.T) {
	stream := []byte{
		0x01, 0x00, 0x00, 0x00, 0x05, 0x01,
		0x02, 0x00, 0x00, 0x00, 0x1a, 0x00, 0x00, 0x00, 0x32,
		0x03, 0x00, 0x00, 0x00, 0x3f, 0xff,
	}
	expected := []protocol.Frame{
		&protocol.SolenoidWrite{Mask: 0x05, Output: protocol.OutHigh},
		&protocol.SolenoidPulse{Mask: 0x1a, DurationMs: 50},
		&protocol.ERMSet{Mask: 0x3f, Intensity: 0xff},
	}
	testCases := []struct {
		name  string
		split []int
	}{
		{"whole", []int{len(stream)}},
		{"bytewise", nil},
		{"uneven", []int{4, 3, 9, 5}},
		{"frame-aligned", []int{6, 9, 6}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, pipe, rec := newTestDispatcher()
			split := tc.split
			if split == nil {
				for range stream {
					split = append(split, 1)
				}
			}
			var offset int
			for _, n := range split {
				pipe.Write(stream[offset : offset+n])
				offset += n
				require.NoError(t, d.Service())
			}
			for i := 0; i < len(expected); i++ {
				require.NoError(t, d.Service())
			}
			require.Equal(t, expected, rec.frames)
			require.Zero(t, pipe.Buffered())
		})
	}
}

func TestUnknownOpcodeDiscard(t *testing.T) {
	d, pipe, rec := newTestDispatcher()
	pipe.Write([]byte{0xee, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00})
	require.NoError(t, d.Service())
	require.Equal(t, 6, pipe.Buffered())
	require.Empty(t, rec.frames)
	require.NoError(t, d.Service())
	require.Equal(t, []protocol.Frame{
		&protocol.SolenoidWrite{Mask: 0x01, Output: protocol.OutLow},
	}, rec.frames)
	require.Equal(t, uint64(1), d.Stats().Discarded)
}

func TestUnknownOpcodeStall(t *testing.T) {
	d, pipe, rec := newTestDispatcher()
	d.Unknown = Stall
	pipe.Write([]byte{0xee, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00})
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Service())
	}
	require.Equal(t, 7, pipe.Buffered())
	require.Empty(t, rec.frames)
	n, err := d.drain()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReservedAndUnhandled(t *testing.T) {
	pipe := uart.NewPipe()
	d := New(pipe, protocol.PinCtrl)
	pipe.Write([]byte{0x04, 0x06, 0x02, 0, 0, 0, 0, 0, 0, 0, 1})
	n, err := d.drain()
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Zero(t, pipe.Buffered())
	stats := d.Stats()
	require.Equal(t, uint64(2), stats.Reserved)
	require.Equal(t, uint64(1), stats.Unhandled)
	require.Zero(t, stats.Frames)
}

func TestDrainStopsOnPartialFrame(t *testing.T) {
	d, pipe, rec := newTestDispatcher()
	pipe.Write([]byte{0x01, 0, 0, 0, 1, 1, 0x01, 0, 0, 0, 2, 0, 0x03, 0})
	n, err := d.drain()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, rec.frames, 2)
	require.Equal(t, 2, pipe.Buffered())
}

type brokenStream struct {
	uart.Pipe
	err error
}

func (s *brokenStream) Peek() (byte, error) { return 0, s.err }

func TestServiceStreamError(t *testing.T) {
	s := &brokenStream{err: errors.New("broken")}
	s.Write([]byte{1})
	d := New(s, protocol.TrueTouch)
	require.Equal(t, s.err, d.Service())
}

func TestParseUnknownPolicy(t *testing.T) {
	testCases := []struct {
		in     string
		policy UnknownPolicy
		fails  bool
	}{
		{"", DiscardByte, false},
		{"discard", DiscardByte, false},
		{"stall", Stall, false},
		{"skip", DiscardByte, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParseUnknownPolicy(tc.in)
			if tc.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.policy, p)
			if tc.in != "" {
				require.Equal(t, tc.in, p.String())
			}
		})
	}
}
