// Package link carries command bytes between controllers and devices.
//
// On the device side every transport is a Runnable writing received
// bytes into a uart.Pipe. On the controller side transports are Sinks
// selected by URL.
package link

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// PacketReader reads one transport message.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one transport message.
type PacketWriter interface {
	WritePacket([]byte) error
}

// Sink sends encoded frames to a device.
type Sink interface {
	PacketWriter
	io.Closer
}

// DeviceRef is a reference to a device.
type DeviceRef struct {
	// Type is the device type (command family).
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r DeviceRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates DeviceRef is valid.
func (r DeviceRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ParseDeviceRef parses "type/id".
func ParseDeviceRef(s string) (DeviceRef, error) {
	items := strings.Split(strings.Trim(s, "/"), "/")
	if len(items) != 2 || items[0] == "" || items[1] == "" {
		return DeviceRef{}, fmt.Errorf("invalid device %q, expect type/id", s)
	}
	return DeviceRef{Type: items[0], ID: items[1]}, nil
}

// DeviceMeta provides metadata of a device.
type DeviceMeta struct {
	Description string            `json:"description,omitempty"`
	Family      string            `json:"family,omitempty"`
	Opcodes     []string          `json:"opcodes,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// DeviceInfo provides information of a device.
type DeviceInfo struct {
	Ref  DeviceRef
	Meta DeviceMeta
}

// DialFunc opens a Sink from a parsed URL.
type DialFunc func(u *url.URL) (Sink, error)

var (
	dialers    = make(map[string]DialFunc)
	dialerLock sync.RWMutex
)

// RegisterScheme registers the dialer of a URL scheme.
func RegisterScheme(scheme string, dial DialFunc) {
	dialerLock.Lock()
	defer dialerLock.Unlock()
	if _, exist := dialers[scheme]; exist {
		panic("link: scheme registered twice: " + scheme)
	}
	dialers[scheme] = dial
}

// Schemes lists registered schemes.
func Schemes() []string {
	dialerLock.RLock()
	defer dialerLock.RUnlock()
	schemes := make([]string, 0, len(dialers))
	for scheme := range dialers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Dial opens a Sink by URL, e.g. serial:///dev/ttyUSB0?baud=115200.
func Dial(rawURL string) (Sink, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	dialerLock.RLock()
	dial := dialers[u.Scheme]
	dialerLock.RUnlock()
	if dial == nil {
		return nil, fmt.Errorf("unsupported link %q, known schemes: %s", u.Scheme, strings.Join(Schemes(), ", "))
	}
	return dial(u)
}
