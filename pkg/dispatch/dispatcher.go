package dispatch

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/truetouch/pkg/protocol"
)

// Stream is the receive side of a byte pipe.
type Stream interface {
	// Buffered returns the number of bytes which can be read without blocking.
	Buffered() int
	// Peek returns the next byte without consuming it.
	Peek() (byte, error)
	// Read consumes buffered bytes.
	Read([]byte) (int, error)
}

// HandlerFunc processes a decoded frame.
type HandlerFunc func(protocol.Frame)

// UnknownPolicy decides what happens to an opcode missing from the codec.
type UnknownPolicy int

const (
	// DiscardByte consumes the unknown byte so the next call can resync.
	DiscardByte UnknownPolicy = iota
	// Stall leaves the byte in the stream. Nothing after it is ever read.
	Stall
)

// String implements fmt.Stringer.
func (p UnknownPolicy) String() string {
	switch p {
	case DiscardByte:
		return "discard"
	case Stall:
		return "stall"
	}
	return fmt.Sprintf("UnknownPolicy(%d)", int(p))
}

// ParseUnknownPolicy parses the name produced by String.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "discard", "":
		return DiscardByte, nil
	case "stall":
		return Stall, nil
	}
	return DiscardByte, fmt.Errorf("invalid unknown opcode policy %q", s)
}

// Stats counts what the dispatcher has seen.
type Stats struct {
	Frames    uint64
	Discarded uint64
	Starved   uint64
	Reserved  uint64
	Unhandled uint64
}

// Dispatcher decodes frames from a Stream.
type Dispatcher struct {
	Stream  Stream
	Codec   *protocol.Codec
	Unknown UnknownPolicy

	handlers [256]HandlerFunc
	stats    Stats
	buf      []byte
}

// New creates a Dispatcher.
func New(stream Stream, codec *protocol.Codec) *Dispatcher {
	return &Dispatcher{Stream: stream, Codec: codec}
}

// Handle registers the handler of an opcode.
func (d *Dispatcher) Handle(op protocol.Opcode, fn HandlerFunc) *Dispatcher {
	d.handlers[op] = fn
	return d
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Frames:    atomic.LoadUint64(&d.stats.Frames),
		Discarded: atomic.LoadUint64(&d.stats.Discarded),
		Starved:   atomic.LoadUint64(&d.stats.Starved),
		Reserved:  atomic.LoadUint64(&d.stats.Reserved),
		Unhandled: atomic.LoadUint64(&d.stats.Unhandled),
	}
}

// Service handles at most one frame. Only stream failures are returned.
func (d *Dispatcher) Service() error {
	if d.Stream.Buffered() == 0 {
		return nil
	}
	b, err := d.Stream.Peek()
	if err != nil {
		return err
	}
	op := protocol.Opcode(b)
	layout, ok := d.Codec.Lookup(op)
	if !ok {
		return d.unknown(op)
	}
	if d.Stream.Buffered() < layout.Width {
		atomic.AddUint64(&d.stats.Starved, 1)
		return nil
	}
	raw := d.frameBuf(layout.Width)
	if _, err := io.ReadFull(d.Stream, raw); err != nil {
		return err
	}
	if layout.Reserved {
		atomic.AddUint64(&d.stats.Reserved, 1)
		glog.Warningf("%s: %s not implemented", d.Codec.Name, layout.Name)
		return nil
	}
	frame := layout.Decode(raw)
	fn := d.handlers[op]
	if fn == nil {
		atomic.AddUint64(&d.stats.Unhandled, 1)
		glog.Warningf("%s: no handler for %s", d.Codec.Name, layout.Name)
		return nil
	}
	atomic.AddUint64(&d.stats.Frames, 1)
	glog.V(1).Infof("%s: %s %+v", d.Codec.Name, layout.Name, frame)
	fn(frame)
	return nil
}

// drain services until the stream is empty or stops making progress
// (incomplete frame, stalled opcode). It returns the number of steps
// which consumed bytes.
func (d *Dispatcher) drain() (int, error) {
	var count int
	for {
		before := d.Stream.Buffered()
		if before == 0 {
			return count, nil
		}
		if err := d.Service(); err != nil {
			return count, err
		}
		if d.Stream.Buffered() == before {
			return count, nil
		}
		count++
	}
}

func (d *Dispatcher) unknown(op protocol.Opcode) error {
	err := &protocol.UnknownOpcodeError{Codec: d.Codec.Name, Opcode: op}
	if d.Unknown == Stall {
		glog.V(1).Info(err)
		return nil
	}
	var b [1]byte
	if _, err := d.Stream.Read(b[:]); err != nil {
		return err
	}
	atomic.AddUint64(&d.stats.Discarded, 1)
	glog.Warningf("%v, byte discarded", err)
	return nil
}

func (d *Dispatcher) frameBuf(width int) []byte {
	// decoders copy fields out, so the buffer is reused.
	if cap(d.buf) < width {
		d.buf = make([]byte, width)
	}
	return d.buf[:width]
}
