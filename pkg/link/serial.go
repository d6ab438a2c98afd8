package link

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/truetouch/pkg/framework"
)

// DefaultBaudRate matches the BLE UART bridge.
const DefaultBaudRate = 115200

// serialReadTimeout bounds a Read so Pump can observe cancellation.
const serialReadTimeout = 100 * time.Millisecond

// OpenSerial opens a serial port in 8N1 mode.
func OpenSerial(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// Pump is implemented by uart.Pipe.
type Pump interface {
	Pump(ctx context.Context, r io.Reader) error
}

// SerialSource feeds a serial port into a pipe.
type SerialSource struct {
	Port string
	Baud int
	Pipe Pump
}

// Name implements framework.Named.
func (s *SerialSource) Name() string {
	return "serial:" + s.Port
}

// Run implements Runnable.
func (s *SerialSource) Run(ctx context.Context) error {
	port, err := OpenSerial(s.Port, s.Baud)
	if err != nil {
		return err
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		glog.Warningf("%s: read timeout: %v", s.Name(), err)
	}
	glog.Infof("%s opened", s.Name())
	return framework.RunWithContextCloser(ctx, port, func() error {
		return s.Pipe.Pump(ctx, port)
	})
}

func dialSerial(u *url.URL) (Sink, error) {
	name := u.Path
	if name == "" {
		name = u.Opaque
	}
	baud := DefaultBaudRate
	if val := u.Query().Get("baud"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		baud = n
	}
	port, err := OpenSerial(name, baud)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{WriteCloser: port}, nil
}

func init() {
	RegisterScheme("serial", dialSerial)
}
