package pinctrl

import (
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/robotalks/truetouch/pkg/bitset"
	"github.com/robotalks/truetouch/pkg/framework"
	"github.com/robotalks/truetouch/pkg/hal"
	"github.com/robotalks/truetouch/pkg/protocol"
	"github.com/robotalks/truetouch/pkg/uart"
)

func newTestDevice(t *testing.T, conf *Config) (*Device, *uart.Pipe, *hal.Recorder) {
	pipe := uart.NewPipe()
	pins := hal.NewRecorder()
	dev, err := conf.NewDevice(pipe, pins, &framework.ManualClock{})
	require.NoError(t, err)
	return dev, pipe, pins
}

func TestDeviceCommands(t *testing.T) {
	testCases := []struct {
		name   string
		frame  protocol.Frame
		expect []hal.Op
	}{
		{
			"configure output",
			&protocol.GPIOConfigure{Mask: bitset.Of(0, 31), Direction: protocol.DirOutput},
			[]hal.Op{
				{Kind: hal.OpDirection, Pin: "0", Direction: hal.Output},
				{Kind: hal.OpDirection, Pin: "31", Direction: hal.Output},
			},
		},
		{
			"configure nonzero is output",
			&protocol.GPIOConfigure{Mask: bitset.Of(3), Direction: 9},
			[]hal.Op{{Kind: hal.OpDirection, Pin: "3", Direction: hal.Output}},
		},
		{
			"configure input",
			&protocol.GPIOConfigure{Port: 2, Mask: bitset.Of(3), Direction: protocol.DirInput},
			[]hal.Op{{Kind: hal.OpDirection, Pin: "3", Direction: hal.Input}},
		},
		{
			"set",
			&protocol.GPIOSet{Mask: bitset.Of(1, 2)},
			[]hal.Op{
				{Kind: hal.OpLevel, Pin: "1", Level: gpio.High},
				{Kind: hal.OpLevel, Pin: "2", Level: gpio.High},
			},
		},
		{
			"clear",
			&protocol.GPIOClear{Mask: bitset.Of(7)},
			[]hal.Op{{Kind: hal.OpLevel, Pin: "7", Level: gpio.Low}},
		},
		{
			"pwm",
			&protocol.PWMSet{Mask: bitset.Of(5), Intensity: 64},
			[]hal.Op{{Kind: hal.OpPWM, Pin: "5", Intensity: 64}},
		},
		{
			"empty mask",
			&protocol.GPIOSet{},
			nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev, pipe, pins := newTestDevice(t, NewConfig())
			_, err := protocol.WriteFrame(pipe, tc.frame)
			require.NoError(t, err)
			require.NoError(t, dev.Service())
			require.Equal(t, tc.expect, pins.Ops())
			require.Zero(t, pipe.Buffered())
			require.Equal(t, uint64(1), dev.Report().Frames)
		})
	}
}

func TestQueriesConsumed(t *testing.T) {
	dev, pipe, pins := newTestDevice(t, NewConfig())
	pipe.Write([]byte{byte(protocol.OpGPIOQuery), byte(protocol.OpQueryState)})
	protocol.WriteFrame(pipe, &protocol.GPIOSet{Mask: bitset.Of(0)})
	for i := 0; i < 3; i++ {
		require.NoError(t, dev.Service())
	}
	require.Equal(t, []hal.Op{{Kind: hal.OpLevel, Pin: "0", Level: gpio.High}}, pins.Ops())
	r := dev.Report()
	require.Equal(t, uint64(2), r.Reserved)
	require.Equal(t, Family, r.Family)
}

func TestBinding(t *testing.T) {
	conf := NewConfig()
	conf.Prefix = "GPIO"
	binding := conf.Binding()
	require.Len(t, binding, bitset.Width)
	require.Equal(t, "GPIO0", binding[0])
	require.Equal(t, "GPIO31", binding[31])

	conf.Pins = []string{"P1_3", "P1_5"}
	dev, pipe, pins := newTestDevice(t, conf)
	protocol.WriteFrame(pipe, &protocol.GPIOSet{Mask: bitset.Of(1, 2)})
	require.NoError(t, dev.Service())
	require.Equal(t, []hal.Op{{Kind: hal.OpLevel, Pin: "P1_5", Level: gpio.High}}, pins.Ops())
}

func TestValidate(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Validate())
	conf.Pins = make([]string, 33)
	require.Error(t, conf.Validate())
	conf = NewConfig()
	conf.Unknown = "ignore"
	require.Error(t, conf.Validate())
}
