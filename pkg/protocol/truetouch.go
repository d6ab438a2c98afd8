package protocol

import "github.com/robotalks/truetouch/pkg/bitset"

// TrueTouch opcodes.
const (
	OpSolenoidWrite Opcode = 0x01 // digital write to fingers' solenoids
	OpSolenoidPulse Opcode = 0x02 // pulse fingers' solenoids one by one
	OpERMSet        Opcode = 0x03 // set PWM on fingers' ERM motors
)

// Output is the level requested by a write.
type Output uint8

// Outputs
const (
	OutLow  Output = 0
	OutHigh Output = 1
)

// IsHigh tells if the output drives high. Only OutHigh does.
func (o Output) IsHigh() bool {
	return o == OutHigh
}

// Frame widths.
const (
	SolenoidWriteWidth = 6
	SolenoidPulseWidth = 9
	ERMSetWidth        = 6
)

// SolenoidWrite sets the solenoids of the masked fingers.
type SolenoidWrite struct {
	Mask   bitset.Mask
	Output Output
}

// Opcode implements Frame.
func (f *SolenoidWrite) Opcode() Opcode { return OpSolenoidWrite }

// Bytes implements Frame.
func (f *SolenoidWrite) Bytes() []byte {
	return newEncoder(OpSolenoidWrite, SolenoidWriteWidth).
		u32(uint32(f.Mask)).u8(uint8(f.Output)).bytes()
}

// SolenoidPulse pulses the masked fingers, DurationMs each.
type SolenoidPulse struct {
	Mask       bitset.Mask
	DurationMs uint32
}

// Opcode implements Frame.
func (f *SolenoidPulse) Opcode() Opcode { return OpSolenoidPulse }

// Bytes implements Frame.
func (f *SolenoidPulse) Bytes() []byte {
	return newEncoder(OpSolenoidPulse, SolenoidPulseWidth).
		u32(uint32(f.Mask)).u32(f.DurationMs).bytes()
}

// ERMSet sets the vibration intensity of the masked fingers.
type ERMSet struct {
	Mask      bitset.Mask
	Intensity uint8 // 0-255
}

// Opcode implements Frame.
func (f *ERMSet) Opcode() Opcode { return OpERMSet }

// Bytes implements Frame.
func (f *ERMSet) Bytes() []byte {
	return newEncoder(OpERMSet, ERMSetWidth).
		u32(uint32(f.Mask)).u8(f.Intensity).bytes()
}

// TrueTouch is the codec of finger addressed commands.
var TrueTouch = NewCodec("truetouch").
	Register(OpSolenoidWrite, Layout{
		Name:  "SOLENOID_WRITE",
		Width: SolenoidWriteWidth,
		Decode: func(raw []byte) Frame {
			return &SolenoidWrite{Mask: mask32(raw[1:5]), Output: Output(raw[5])}
		},
	}).
	Register(OpSolenoidPulse, Layout{
		Name:  "SOLENOID_PULSE",
		Width: SolenoidPulseWidth,
		Decode: func(raw []byte) Frame {
			return &SolenoidPulse{Mask: mask32(raw[1:5]), DurationMs: field32(raw[5:9])}
		},
	}).
	Register(OpERMSet, Layout{
		Name:  "ERM_SET",
		Width: ERMSetWidth,
		Decode: func(raw []byte) Frame {
			return &ERMSet{Mask: mask32(raw[1:5]), Intensity: raw[5]}
		},
	})
