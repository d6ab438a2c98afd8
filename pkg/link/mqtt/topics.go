package mqtt

import "github.com/robotalks/truetouch/pkg/link"

// Topic suffixes of a device.
const (
	MetaTopic   = "meta"
	CmdTopic    = "cmd"
	StatusTopic = "status"
)

// DeviceTopic returns <type>/<id>/<suffix>.
func DeviceTopic(ref link.DeviceRef, suffix string) string {
	return ref.Name() + "/" + suffix
}
