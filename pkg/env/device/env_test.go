package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/link/mqtt"
	"github.com/robotalks/truetouch/pkg/status"
	"github.com/robotalks/truetouch/pkg/uart"
)

type nopReporter struct{}

func (nopReporter) Report() *status.Report { return &status.Report{} }

func TestNewEnvRequiresSource(t *testing.T) {
	conf := &Config{}
	_, err := conf.NewEnv("truetouch", uart.NewPipe(), nopReporter{})
	require.Error(t, err)
}

func TestNewEnvSources(t *testing.T) {
	conf := &Config{
		Info:           link.DeviceInfo{Ref: link.DeviceRef{ID: "glove"}},
		SerialPort:     "/dev/ttyACM0",
		WebsocketAddr:  ":0",
		MQTTBrokerURL:  "mqtt://127.0.0.1:1/tt/",
		StatusInterval: 3,
	}
	e, err := conf.NewEnv("truetouch", uart.NewPipe(), nopReporter{})
	require.NoError(t, err)
	require.Len(t, e.Sources, 3)
	require.Equal(t, "serial:/dev/ttyACM0", e.Sources[0].(*link.SerialSource).Name())
	require.IsType(t, &link.WebsocketSource{}, e.Sources[1])
	reg := e.Sources[2].(*mqtt.Registrar)
	require.Equal(t, link.DeviceRef{Type: "truetouch", ID: "glove"}, reg.Info.Ref)
	require.Equal(t, "truetouch", reg.Info.Meta.Family)
	require.EqualValues(t, 3, reg.Interval)
}

func TestNewEnvDefaultsID(t *testing.T) {
	conf := &Config{SerialPort: "/dev/null"}
	_, err := conf.NewEnv("pinctrl", uart.NewPipe(), nopReporter{})
	require.NoError(t, err)
	require.True(t, conf.Info.Ref.IsValid())
}
