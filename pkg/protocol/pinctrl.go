package protocol

import "github.com/robotalks/truetouch/pkg/bitset"

// PinCtrl opcodes.
const (
	OpGPIOConfigure Opcode = 0x01
	OpGPIOSet       Opcode = 0x02
	OpGPIOClear     Opcode = 0x03
	OpGPIOQuery     Opcode = 0x04 // reserved
	OpPWMSet        Opcode = 0x05
	OpQueryState    Opcode = 0x06 // reserved
)

// Direction is the requested GPIO direction.
type Direction uint8

// Directions
const (
	DirInput  Direction = 0
	DirOutput Direction = 1
)

// IsOutput tells if the direction is output. Any non-zero value is.
func (d Direction) IsOutput() bool {
	return d != DirInput
}

// Frame widths.
const (
	GPIOConfigureWidth = 10
	GPIOSetWidth       = 9
	GPIOClearWidth     = 9
	PWMSetWidth        = 10
)

// GPIOConfigure sets the direction of the masked pins.
type GPIOConfigure struct {
	Port      uint32 // unused by the device
	Mask      bitset.Mask
	Direction Direction
}

// Opcode implements Frame.
func (f *GPIOConfigure) Opcode() Opcode { return OpGPIOConfigure }

// Bytes implements Frame.
func (f *GPIOConfigure) Bytes() []byte {
	return newEncoder(OpGPIOConfigure, GPIOConfigureWidth).
		u32(f.Port).u32(uint32(f.Mask)).u8(uint8(f.Direction)).bytes()
}

// GPIOSet drives the masked pins high.
type GPIOSet struct {
	Port uint32 // unused by the device
	Mask bitset.Mask
}

// Opcode implements Frame.
func (f *GPIOSet) Opcode() Opcode { return OpGPIOSet }

// Bytes implements Frame.
func (f *GPIOSet) Bytes() []byte {
	return newEncoder(OpGPIOSet, GPIOSetWidth).
		u32(f.Port).u32(uint32(f.Mask)).bytes()
}

// GPIOClear drives the masked pins low.
type GPIOClear struct {
	Port uint32 // unused by the device
	Mask bitset.Mask
}

// Opcode implements Frame.
func (f *GPIOClear) Opcode() Opcode { return OpGPIOClear }

// Bytes implements Frame.
func (f *GPIOClear) Bytes() []byte {
	return newEncoder(OpGPIOClear, GPIOClearWidth).
		u32(f.Port).u32(uint32(f.Mask)).bytes()
}

// PWMSet sets PWM intensity on the masked pins.
type PWMSet struct {
	Port      uint32 // unused by the device
	Mask      bitset.Mask
	Intensity uint8 // 0-255
}

// Opcode implements Frame.
func (f *PWMSet) Opcode() Opcode { return OpPWMSet }

// Bytes implements Frame.
func (f *PWMSet) Bytes() []byte {
	return newEncoder(OpPWMSet, PWMSetWidth).
		u32(f.Port).u32(uint32(f.Mask)).u8(f.Intensity).bytes()
}

// PinCtrl is the codec of generic pin commands.
var PinCtrl = NewCodec("pinctrl").
	Register(OpGPIOConfigure, Layout{
		Name:  "GPIO_CONFIGURE",
		Width: GPIOConfigureWidth,
		Decode: func(raw []byte) Frame {
			return &GPIOConfigure{
				Port:      field32(raw[1:5]),
				Mask:      mask32(raw[5:9]),
				Direction: Direction(raw[9]),
			}
		},
	}).
	Register(OpGPIOSet, Layout{
		Name:  "GPIO_SET",
		Width: GPIOSetWidth,
		Decode: func(raw []byte) Frame {
			return &GPIOSet{Port: field32(raw[1:5]), Mask: mask32(raw[5:9])}
		},
	}).
	Register(OpGPIOClear, Layout{
		Name:  "GPIO_CLEAR",
		Width: GPIOClearWidth,
		Decode: func(raw []byte) Frame {
			return &GPIOClear{Port: field32(raw[1:5]), Mask: mask32(raw[5:9])}
		},
	}).
	Register(OpGPIOQuery, Layout{Name: "GPIO_QUERY", Reserved: true}).
	Register(OpPWMSet, Layout{
		Name:  "PWM_SET",
		Width: PWMSetWidth,
		Decode: func(raw []byte) Frame {
			return &PWMSet{
				Port:      field32(raw[1:5]),
				Mask:      mask32(raw[5:9]),
				Intensity: raw[9],
			}
		},
	}).
	Register(OpQueryState, Layout{Name: "QUERY_STATE", Reserved: true})
