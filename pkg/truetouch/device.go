// Package truetouch implements the TrueTouch haptic glove command set:
// solenoid writes, solenoid pulses and ERM motor intensity.
package truetouch

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
const Family = "truetouch"

// Device services TrueTouch commands from a stream.
type Device struct {
	Solenoids  *actuator.Bank
	ERMs       *actuator.Bank
	Pulser     *actuator.Pulser
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
	solenoids, err := actuator.NewBank("solenoids", pins, c.SolenoidPins)
	if err != nil {
		return nil, err
	}
	erms, err := actuator.NewBank("erms", pins, c.ERMPins)
	if err != nil {
		return nil, err
	}
	d := &Device{
		Solenoids:  solenoids,
		ERMs:       erms,
		Dispatcher: dispatch.New(stream, protocol.TrueTouch),
		clock:      clock,
		start:      clock.Millis(),
	}
	d.Dispatcher.Unknown = unknown
	pulsed := solenoids
	if c.PulseBank == PulseERMs {
		pulsed = erms
	}
	d.Pulser = actuator.NewPulser(pulsed, clock)
	d.Dispatcher.
		Handle(protocol.OpSolenoidWrite, d.solenoidWrite).
		Handle(protocol.OpSolenoidPulse, d.solenoidPulse).
		Handle(protocol.OpERMSet, d.ermSet)
	return d, nil
}

// Init drives every actuator low.
func (d *Device) Init() error {
	var errs framework.AggregatedError
	errs.Add(d.Solenoids.Reset(), d.ERMs.Reset())
	return errs.Aggregate()
}

// Service advances a running pulse, then handles at most one command.
func (d *Device) Service() error {
	if err := d.Pulser.Service(); err != nil {
		glog.Errorf("pulse: %v", err)
	}
	return d.Dispatcher.Service()
}

// AddToLoop implements framework.LoopAdder.
func (d *Device) AddToLoop(l *framework.Loop) {
	l.AddServicer(d)
}

// Report implements status.Reporter.
func (d *Device) Report() *status.Report {
	stats := d.Dispatcher.Stats()
	pulse := d.Pulser.Snapshot()
	return &status.Report{
		Family:          Family,
		Frames:          stats.Frames,
		Discarded:       stats.Discarded,
		Starved:         stats.Starved,
		Reserved:        stats.Reserved,
		Unhandled:       stats.Unhandled,
		PulseMask:       uint32(pulse.Remaining),
		PulseActive:     int32(pulse.Active),
		PulseDurationMs: pulse.DurationMs,
		UptimeMs:        d.clock.Millis() - d.start,
	}
}

func (d *Device) solenoidWrite(f protocol.Frame) {
	w := f.(*protocol.SolenoidWrite)
	level := gpio.Low
	if w.Output.IsHigh() {
		level = gpio.High
	}
	if err := d.Solenoids.Write(w.Mask, level); err != nil {
		glog.Errorf("solenoid write: %v", err)
	}
}

func (d *Device) solenoidPulse(f protocol.Frame) {
	p := f.(*protocol.SolenoidPulse)
	if err := d.Pulser.Trigger(p.Mask, p.DurationMs); err != nil {
		glog.Errorf("solenoid pulse: %v", err)
	}
}

func (d *Device) ermSet(f protocol.Frame) {
	e := f.(*protocol.ERMSet)
	if err := d.ERMs.SetIntensity(e.Mask, e.Intensity); err != nil {
		glog.Errorf("erm set: %v", err)
	}
}
