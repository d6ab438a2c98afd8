package protocol

import (
	"encoding/binary"
	"io"

	"github.com/robotalks/truetouch/pkg/bitset"
)

// Opcode is the leading byte of a frame.
type Opcode byte

// Frame is a decoded command.
type Frame interface {
	Opcode() Opcode
	// Bytes encodes the frame in wire order.
	Bytes() []byte
}

// Layout describes the frame for one opcode.
type Layout struct {
	Name  string
	Width int
	// Reserved opcodes are recognized but carry no frame.
	Reserved bool
	// Decode is only called on exactly Width bytes.
	Decode func(raw []byte) Frame
}

// Codec maps opcodes of one namespace to layouts.
type Codec struct {
	Name    string
	layouts [256]*Layout
}

// NewCodec creates an empty Codec.
func NewCodec(name string) *Codec {
	return &Codec{Name: name}
}

// Register adds a layout. It panics on duplicated opcodes.
func (c *Codec) Register(op Opcode, layout Layout) *Codec {
	if c.layouts[op] != nil {
		panic(c.Name + ": opcode registered twice: " + layout.Name)
	}
	if layout.Reserved {
		layout.Width, layout.Decode = 1, nil
	}
	c.layouts[op] = &layout
	return c
}

// Lookup finds the layout of an opcode.
func (c *Codec) Lookup(op Opcode) (*Layout, bool) {
	l := c.layouts[op]
	return l, l != nil
}

// Opcodes lists registered opcodes in ascending order.
func (c *Codec) Opcodes() []Opcode {
	var ops []Opcode
	for n, l := range c.layouts {
		if l != nil {
			ops = append(ops, Opcode(n))
		}
	}
	return ops
}

// Decode decodes the frame at the start of raw.
// Extra bytes after the frame are ignored.
func (c *Codec) Decode(raw []byte) (Frame, error) {
	if len(raw) == 0 {
		return nil, ErrShortFrame
	}
	l, ok := c.Lookup(Opcode(raw[0]))
	if !ok {
		return nil, &UnknownOpcodeError{Codec: c.Name, Opcode: Opcode(raw[0])}
	}
	if l.Reserved {
		return nil, ErrReserved
	}
	if len(raw) < l.Width {
		return nil, ErrShortFrame
	}
	return l.Decode(raw[:l.Width]), nil
}

// WriteFrame writes the encoded frame.
func WriteFrame(w io.Writer, f Frame) (int, error) {
	return w.Write(f.Bytes())
}

// field32 reads a 32-bit field as it lands in little-endian host memory,
// then corrects it to host order.
func field32(raw []byte) uint32 {
	return bitset.FixByteOrder(binary.LittleEndian.Uint32(raw))
}

func mask32(raw []byte) bitset.Mask {
	return bitset.Mask(field32(raw))
}

type encoder struct {
	b []byte
}

func newEncoder(op Opcode, width int) *encoder {
	b := make([]byte, 1, width)
	b[0] = byte(op)
	return &encoder{b: b}
}

func (e *encoder) u8(v uint8) *encoder {
	e.b = append(e.b, v)
	return e
}

func (e *encoder) u32(v uint32) *encoder {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	e.b = append(e.b, buf[:]...)
	return e
}

func (e *encoder) bytes() []byte {
	return e.b
}
