// Package pinctrl implements generic remote pin control: direction,
// set, clear and PWM on up to 32 pins.
package pinctrl

import (
	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"

	"github.com/robotalks/truetouch/pkg/actuator"
	"github.com/robotalks/truetouch/pkg/dispatch"
	"github.com/robotalks/truetouch/pkg/framework"
	"github.com/robotalks/truetouch/pkg/hal"
	"github.com/robotalks/truetouch/pkg/protocol"
	"github.com/robotalks/truetouch/pkg/status"
)

// Family is the name of the command set.
const Family = "pinctrl"

// Device services pin control commands from a stream.
type Device struct {
	Pins       *actuator.Bank
	Dispatcher *dispatch.Dispatcher

	clock framework.Clock
	start uint32
}

// NewDevice creates a Device from the config.
func (c *Config) NewDevice(stream dispatch.Stream, pins hal.Pins, clock framework.Clock) (*Device, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	unknown, _ := dispatch.ParseUnknownPolicy(c.Unknown)
	bank, err := actuator.NewBank("gpio", pins, c.Binding())
	if err != nil {
		return nil, err
	}
	d := &Device{
		Pins:       bank,
		Dispatcher: dispatch.New(stream, protocol.PinCtrl),
		clock:      clock,
		start:      clock.Millis(),
	}
	d.Dispatcher.Unknown = unknown
	d.Dispatcher.
		Handle(protocol.OpGPIOConfigure, d.configure).
		Handle(protocol.OpGPIOSet, d.set).
		Handle(protocol.OpGPIOClear, d.clear).
		Handle(protocol.OpPWMSet, d.pwm)
	return d, nil
}

// Init does nothing, pins keep their state until configured.
func (d *Device) Init() error {
	return nil
}

// Service handles at most one command.
func (d *Device) Service() error {
	return d.Dispatcher.Service()
}

// AddToLoop implements framework.LoopAdder.
func (d *Device) AddToLoop(l *framework.Loop) {
	l.AddServicer(d)
}

// Report implements status.Reporter.
func (d *Device) Report() *status.Report {
	stats := d.Dispatcher.Stats()
	return &status.Report{
		Family:      Family,
		Frames:      stats.Frames,
		Discarded:   stats.Discarded,
		Starved:     stats.Starved,
		Reserved:    stats.Reserved,
		Unhandled:   stats.Unhandled,
		PulseActive: status.NoPulse,
		UptimeMs:    d.clock.Millis() - d.start,
	}
}

func logPort(name string, port uint32) {
	if port != 0 {
		glog.V(1).Infof("%s: port %d ignored", name, port)
	}
}

func (d *Device) configure(f protocol.Frame) {
	c := f.(*protocol.GPIOConfigure)
	logPort("configure", c.Port)
	dir := hal.Input
	if c.Direction.IsOutput() {
		dir = hal.Output
	}
	if err := d.Pins.Configure(c.Mask, dir); err != nil {
		glog.Errorf("gpio configure: %v", err)
	}
}

func (d *Device) set(f protocol.Frame) {
	s := f.(*protocol.GPIOSet)
	logPort("set", s.Port)
	if err := d.Pins.Write(s.Mask, gpio.High); err != nil {
		glog.Errorf("gpio set: %v", err)
	}
}

func (d *Device) clear(f protocol.Frame) {
	c := f.(*protocol.GPIOClear)
	logPort("clear", c.Port)
	if err := d.Pins.Write(c.Mask, gpio.Low); err != nil {
		glog.Errorf("gpio clear: %v", err)
	}
}

func (d *Device) pwm(f protocol.Frame) {
	p := f.(*protocol.PWMSet)
	logPort("pwm", p.Port)
	if err := d.Pins.SetIntensity(p.Mask, p.Intensity); err != nil {
		glog.Errorf("pwm set: %v", err)
	}
}
