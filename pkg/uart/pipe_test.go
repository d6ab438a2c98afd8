package uart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipeReadWrite(t *testing.T) {
	var p Pipe
	_, err := p.Peek()
	require.Equal(t, ErrEmpty, err)
	n, err := p.Read(make([]byte, 1))
	require.Equal(t, ErrEmpty, err)
	require.Zero(t, n)

	n, err = p.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, p.Buffered())

	b, err := p.Peek()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)
	require.Equal(t, 3, p.Buffered(), "peek must not consume")

	buf := make([]byte, 2)
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{1, 2}, buf)

	p.Write([]byte{4})
	buf = make([]byte, 4)
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, buf[:n])
	require.Zero(t, p.Buffered())
}

func TestPipeOverflow(t *testing.T) {
	p := &Pipe{Capacity: 4}
	n, err := p.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = p.Write([]byte{4, 5})
	require.Equal(t, ErrOverflow, err)
	require.Zero(t, n)
	require.Equal(t, 3, p.Buffered())

	n, err = p.Write([]byte{4})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	buf := make([]byte, 8)
	n, _ = p.Read(buf)
	require.Equal(t, []byte{1, 2, 3, 4}, buf[:n])

	p.Write([]byte{1, 2})
	p.Reset()
	require.Zero(t, p.Buffered())
}

func TestPipeOnWrite(t *testing.T) {
	var calls int
	p := &Pipe{OnWrite: func() { calls++ }}
	p.Write([]byte{1})
	p.Write(nil)
	p.Write([]byte{2, 3})
	require.Equal(t, 2, calls)
}

type chunkReader struct {
	chunks [][]byte
	err    error
}

func (r *chunkReader) Read(b []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, r.err
	}
	n := copy(b, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func TestPump(t *testing.T) {
	p := NewPipe()
	r := &chunkReader{chunks: [][]byte{{1}, {}, {2, 3}, {4}}, err: io.EOF}
	require.NoError(t, p.Pump(context.Background(), r))
	buf := make([]byte, 8)
	n, _ := p.Read(buf)
	require.Equal(t, []byte{1, 2, 3, 4}, buf[:n])

	failure := errors.New("line down")
	r = &chunkReader{chunks: [][]byte{{5}}, err: failure}
	require.Equal(t, failure, p.Pump(context.Background(), r))
	require.Equal(t, 1, p.Buffered())
}

func TestPumpCanceled(t *testing.T) {
	p := NewPipe()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := bytes.NewReader([]byte{1, 2, 3})
	done := make(chan error, 1)
	go func() { done <- p.Pump(ctx, r) }()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	require.Equal(t, 3, p.Buffered())
}
