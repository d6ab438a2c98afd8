// Package status provides the out-of-band status report of a device.
package status

// Reports are telemetry only. They are published periodically by the
// daemon and never acknowledge individual commands.
//
// Producer: truetouchd
// Consumer: monitors subscribed to <type>/<id>/status
