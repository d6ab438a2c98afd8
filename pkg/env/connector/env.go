// Package connector sets up the environment of a controller sending
// commands to a device.
package connector

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/link/mqtt"
)

// Config provides common options to reach devices.
type Config struct {
	// Link is the URL of the device, e.g. serial:///dev/ttyUSB0?baud=115200.
	Link string
	// RegistryURL specifies the broker devices register to.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/truetouch/",
}

func init() {
	if val := os.Getenv("TRUETOUCH_LINK"); val != "" {
		defaultConfig.Link = val
	}
	if val := os.Getenv("TRUETOUCH_MQTT_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "Device link URL: serial://, ws://, mqtt://...?device=type/id")
	flag.StringVar(&defaultConfig.RegistryURL, "reg", defaultConfig.RegistryURL, "Device registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Dial opens the configured link.
func (c *Config) Dial() (link.Sink, error) {
	if c.Link == "" {
		return nil, fmt.Errorf("no link specified")
	}
	return link.Dial(c.Link)
}

// DeviceLink builds the broker link URL of a registered device.
func (c *Config) DeviceLink(ref link.DeviceRef) (string, error) {
	u, err := url.Parse(c.RegistryURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("device", ref.Name())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Discover lists the devices registered on the broker.
func (c *Config) Discover(ctx context.Context) ([]link.DeviceInfo, error) {
	if !strings.HasPrefix(c.RegistryURL, "mqtt") {
		return nil, fmt.Errorf("discovery requires an MQTT registry")
	}
	return mqtt.Discover(ctx, c.RegistryURL, mqtt.DefaultDiscoverTimeout)
}
