package truetouch

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/robotalks/truetouch/pkg/dispatch"
)

// PulseBank selects the bank driven by pulse commands.
type PulseBank string

// Pulse banks
const (
	PulseSolenoids PulseBank = "solenoids"
	PulseERMs      PulseBank = "erm"
)

// Config defines the configurations of a TrueTouch device.
type Config struct {
	SolenoidPins []string  `yaml:"solenoids"`
	ERMPins      []string  `yaml:"erms"`
	PulseBank    PulseBank `yaml:"pulse_bank"`
	Unknown      string    `yaml:"unknown_opcode"`
}

var defaultConfig = Config{
	SolenoidPins: []string{"9", "10", "11", "12", "13"},
	ERMPins:      []string{"14", "15", "16", "17", "18", "19"},
	PulseBank:    PulseSolenoids,
	Unknown:      "discard",
}

func init() {
	if val := os.Getenv("TRUETOUCH_SOLENOID_PINS"); val != "" {
		defaultConfig.SolenoidPins = splitPins(val)
	}
	if val := os.Getenv("TRUETOUCH_ERM_PINS"); val != "" {
		defaultConfig.ERMPins = splitPins(val)
	}
}

type pinList struct {
	pins *[]string
}

func (l pinList) String() string {
	if l.pins == nil {
		return ""
	}
	return strings.Join(*l.pins, ",")
}

func (l pinList) Set(val string) error {
	*l.pins = splitPins(val)
	return nil
}

func splitPins(val string) []string {
	var pins []string
	for _, pin := range strings.Split(val, ",") {
		if pin = strings.TrimSpace(pin); pin != "" {
			pins = append(pins, pin)
		}
	}
	return pins
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Var(pinList{&defaultConfig.SolenoidPins}, "solenoid-pins", "Comma separated solenoid pins, thumb first.")
	flag.Var(pinList{&defaultConfig.ERMPins}, "erm-pins", "Comma separated ERM motor pins, thumb first, palm last.")
	flag.StringVar((*string)(&defaultConfig.PulseBank), "pulse-bank", string(defaultConfig.PulseBank), "Bank driven by pulse commands: solenoids or erm.")
	flag.StringVar(&defaultConfig.Unknown, "unknown-opcode", defaultConfig.Unknown, "Unknown opcode handling: discard or stall.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.SolenoidPins = append([]string(nil), defaultConfig.SolenoidPins...)
	conf.ERMPins = append([]string(nil), defaultConfig.ERMPins...)
	return &conf
}

// Validate checks the pin counts and options.
func (c *Config) Validate() error {
	if len(c.SolenoidPins) != SolenoidCount {
		return fmt.Errorf("%d solenoid pins required, got %d", SolenoidCount, len(c.SolenoidPins))
	}
	if len(c.ERMPins) != ERMCount {
		return fmt.Errorf("%d ERM pins required, got %d", ERMCount, len(c.ERMPins))
	}
	switch c.PulseBank {
	case PulseSolenoids, PulseERMs, "":
	default:
		return fmt.Errorf("invalid pulse bank %q", c.PulseBank)
	}
	_, err := dispatch.ParseUnknownPolicy(c.Unknown)
	return err
}
