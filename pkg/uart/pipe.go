package uart

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"
)

var (
	// ErrEmpty indicates no byte is buffered.
	ErrEmpty = errors.New("pipe empty")
	// ErrOverflow indicates a write exceeded the capacity.
	ErrOverflow = errors.New("pipe overflow")
)

// DefaultCapacity is large enough for a burst of commands over BLE.
const DefaultCapacity = 4096

// Pipe buffers received bytes in order.
type Pipe struct {
	// Capacity limits buffered bytes, 0 means unlimited.
	Capacity int
	// OnWrite is called after bytes are appended.
	OnWrite func()

	buf  []byte
	lock sync.Mutex
}

// NewPipe creates a Pipe with DefaultCapacity.
func NewPipe() *Pipe {
	return &Pipe{Capacity: DefaultCapacity}
}

// Write appends b as a whole. If b doesn't fit, nothing is appended and
// ErrOverflow is returned, so a partial frame never enters the stream.
func (p *Pipe) Write(b []byte) (int, error) {
	p.lock.Lock()
	if p.Capacity > 0 && len(p.buf)+len(b) > p.Capacity {
		p.lock.Unlock()
		return 0, ErrOverflow
	}
	p.buf = append(p.buf, b...)
	n := len(b)
	p.lock.Unlock()
	if n > 0 {
		if fn := p.OnWrite; fn != nil {
			fn()
		}
	}
	return n, nil
}

// Buffered returns the number of bytes available.
func (p *Pipe) Buffered() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.buf)
}

// Peek returns the next byte without consuming it.
func (p *Pipe) Peek() (byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.buf) == 0 {
		return 0, ErrEmpty
	}
	return p.buf[0], nil
}

// Read consumes up to len(b) bytes. It never blocks.
func (p *Pipe) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.buf) == 0 {
		return 0, ErrEmpty
	}
	n := copy(b, p.buf)
	p.buf = p.buf[:copy(p.buf, p.buf[n:])]
	return n, nil
}

// Reset drops all buffered bytes.
func (p *Pipe) Reset() {
	p.lock.Lock()
	p.buf = p.buf[:0]
	p.lock.Unlock()
}

// Pump copies from a blocking reader until ctx is done, the reader
// reaches EOF or fails. A Read returning no data (e.g. serial
// read timeout) is simply retried.
func (p *Pipe) Pump(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := p.Write(buf[:n]); werr != nil {
				glog.Warningf("pipe: %v, %d bytes dropped", werr, n)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
