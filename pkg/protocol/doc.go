// Package protocol defines the command frames sent over the BLE UART.
//
// A frame is one opcode byte followed by fixed-width fields. There is no
// length prefix and no checksum, the opcode alone implies the width.
// Multi-byte fields are big-endian on the wire.
//
// Two independent opcode namespaces exist:
//
//   TrueTouch: finger addressed solenoids and ERM motors.
//   PinCtrl:   generic GPIO and PWM control by pin number.
//
// Producer: controller (desktop, ttctl)
// Consumer: device (truetouchd)
package protocol
