// Package env provides the identity and configuration files of a device.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "truetouch"

// MachineID retrieves the unique ID identifying the machine. The raw
// machine ID is hashed with the application ID so it is never published.
// The host name is used when the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
