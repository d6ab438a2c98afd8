// Package device sets up the environment of a device daemon: identity,
// transports feeding the command pipe and the broker registrar.
package device

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/truetouch/pkg/env"
	fx "github.com/robotalks/truetouch/pkg/framework"
	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/link/mqtt"
	"github.com/robotalks/truetouch/pkg/status"
	"github.com/robotalks/truetouch/pkg/uart"
)

// Config provides common options to setup the env of a device.
type Config struct {
	Info link.DeviceInfo

	// SerialPort is the serial device bridged to the BLE UART.
	SerialPort string
	BaudRate   int
	// WebsocketAddr accepts controllers over websocket, e.g. :8080.
	WebsocketAddr string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL  string
	StatusInterval time.Duration
}

var defaultConfig = Config{
	BaudRate:       link.DefaultBaudRate,
	StatusInterval: mqtt.DefaultStatusInterval,
}

func init() {
	if val := os.Getenv("TRUETOUCH_SERIAL"); val != "" {
		defaultConfig.SerialPort = val
	}
	if val := os.Getenv("TRUETOUCH_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.BaudRate = baud
		}
	}
	if val := os.Getenv("TRUETOUCH_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("TRUETOUCH_WS"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Device ID, defaults to the machine ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "desc", defaultConfig.Info.Meta.Description, "Device description")
	flag.StringVar(&defaultConfig.SerialPort, "serial", defaultConfig.SerialPort, "Serial port receiving commands")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.DurationVar(&defaultConfig.StatusInterval, "status-interval", defaultConfig.StatusInterval, "Status publishing interval")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the env of a device.
type Env struct {
	Config  *Config
	Sources []fx.Runnable
}

// NewEnv creates Env from config. Commands from every transport are
// written to pipe.
func (c *Config) NewEnv(family string, pipe *uart.Pipe, reporter status.Reporter) (*Env, error) {
	c.Info.Ref.Type = family
	c.Info.Meta.Family = family
	if c.Info.Ref.ID == "" {
		c.Info.Ref.ID = env.MachineID()
	}
	e := &Env{Config: c}
	if c.SerialPort != "" {
		e.Sources = append(e.Sources, &link.SerialSource{Port: c.SerialPort, Baud: c.BaudRate, Pipe: pipe})
	}
	if c.WebsocketAddr != "" {
		e.Sources = append(e.Sources, &link.WebsocketSource{Addr: c.WebsocketAddr, Writer: pipe})
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info, pipe, reporter)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		reg.Interval = c.StatusInterval
		e.Sources = append(e.Sources, reg)
	}
	if len(e.Sources) == 0 {
		return nil, fmt.Errorf("at least one of -serial, -ws, -mqtt is required")
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(family string, pipe *uart.Pipe, reporter status.Reporter) *Env {
	e, err := c.NewEnv(family, pipe, reporter)
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// AddToLoop implements LoopAdder, sources run with the loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(e.Sources...)
}
