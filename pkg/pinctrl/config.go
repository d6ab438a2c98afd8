package pinctrl

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/robotalks/truetouch/pkg/bitset"
	"github.com/robotalks/truetouch/pkg/dispatch"
)

// Config defines the configurations of a pin control device.
type Config struct {
	// Pins maps GPIO index to pin name.
	Pins    []string `yaml:"pins"`
	Prefix  string   `yaml:"prefix"`
	Unknown string   `yaml:"unknown_opcode"`
}

var defaultConfig = Config{
	Unknown: "discard",
}

func init() {
	if val := os.Getenv("TRUETOUCH_PIN_PREFIX"); val != "" {
		defaultConfig.Prefix = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Prefix, "pin-prefix", defaultConfig.Prefix, "Prefix of pin names when no binding is given, e.g. GPIO.")
	flag.StringVar(&defaultConfig.Unknown, "pinctrl-unknown-opcode", defaultConfig.Unknown, "Unknown opcode handling: discard or stall.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Pins = append([]string(nil), defaultConfig.Pins...)
	return &conf
}

// Binding returns the configured pins, or prefix+index for every GPIO.
func (c *Config) Binding() []string {
	if len(c.Pins) > 0 {
		return c.Pins
	}
	pins := make([]string, bitset.Width)
	for n := range pins {
		pins[n] = c.Prefix + strconv.Itoa(n)
	}
	return pins
}

// Validate checks the config.
func (c *Config) Validate() error {
	if len(c.Pins) > bitset.Width {
		return fmt.Errorf("at most %d pins, got %d", bitset.Width, len(c.Pins))
	}
	_, err := dispatch.ParseUnknownPolicy(c.Unknown)
	return err
}
