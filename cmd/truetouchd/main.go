package main

import (
	"flag"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/truetouch/pkg/env"
	"github.com/robotalks/truetouch/pkg/env/device"
	"github.com/robotalks/truetouch/pkg/framework"
	"github.com/robotalks/truetouch/pkg/hal"
	"github.com/robotalks/truetouch/pkg/pinctrl"
	"github.com/robotalks/truetouch/pkg/protocol"
	"github.com/robotalks/truetouch/pkg/status"
	"github.com/robotalks/truetouch/pkg/truetouch"
	"github.com/robotalks/truetouch/pkg/uart"
)

// Device is serviced by the loop.
type Device interface {
	framework.Servicer
	framework.LoopAdder
	status.Reporter
	Init() error
}

var (
	family   = truetouch.Family
	bindings string
	dryRun   bool
	tick     = framework.DefaultInterval
)

func init() {
	if val := os.Getenv("TRUETOUCH_BINDINGS"); val != "" {
		bindings = val
	}
	flag.StringVar(&family, "family", family, "Command family: truetouch or pinctrl.")
	flag.StringVar(&bindings, "bindings", bindings, "YAML file of pin bindings.")
	flag.BoolVar(&dryRun, "dry-run", dryRun, "Record pin operations instead of driving pins.")
	flag.DurationVar(&tick, "tick", tick, "Service interval.")
	device.SetupFlags()
	truetouch.SetupFlags()
	pinctrl.SetupFlags()
}

func newPins() hal.Pins {
	if dryRun {
		return hal.NewRecorder()
	}
	if err := hal.InitHost(); err != nil {
		log.Fatalln(err)
	}
	return hal.NewPeriph()
}

func newDevice(pipe *uart.Pipe, pins hal.Pins, clock framework.Clock) (Device, *protocol.Codec, error) {
	switch family {
	case truetouch.Family:
		conf := truetouch.NewConfig()
		if bindings != "" {
			if err := env.LoadBindings(bindings, conf); err != nil {
				return nil, nil, err
			}
		}
		dev, err := conf.NewDevice(pipe, pins, clock)
		return dev, protocol.TrueTouch, err
	case pinctrl.Family:
		conf := pinctrl.NewConfig()
		if bindings != "" {
			if err := env.LoadBindings(bindings, conf); err != nil {
				return nil, nil, err
			}
		}
		dev, err := conf.NewDevice(pipe, pins, clock)
		return dev, protocol.PinCtrl, err
	}
	log.Fatalf("unknown family %q", family)
	return nil, nil, nil
}

func opcodeNames(codec *protocol.Codec) []string {
	var names []string
	for _, op := range codec.Opcodes() {
		layout, _ := codec.Lookup(op)
		names = append(names, layout.Name)
	}
	return names
}

func main() {
	flag.Parse()
	defer glog.Flush()

	pipe := uart.NewPipe()
	dev, codec, err := newDevice(pipe, newPins(), framework.NewSystemClock())
	if err != nil {
		log.Fatalln(err)
	}
	if err := dev.Init(); err != nil {
		glog.Errorf("init: %v", err)
	}

	conf := device.NewConfig()
	conf.Info.Meta.Opcodes = opcodeNames(codec)
	e := conf.MustNewEnv(family, pipe, dev)
	glog.Infof("%s ready", conf.Info.Ref.Name())

	loop := framework.NewLoop().Add(e, dev)
	loop.Interval = tick
	pipe.OnWrite = loop.TriggerNext

	runner := framework.NewRunner().HandleSignals()
	runner.Go(framework.NamedRun("loop", loop))
	if err := runner.Wait(); err != nil {
		glog.Error(err)
	}
}
