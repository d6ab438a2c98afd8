package link

import (
	"context"
	"io"
	"net/url"

	"github.com/golang/glog"
)

// PacketSource copies packets into a writer (usually a uart.Pipe).
type PacketSource struct {
	Reader PacketReader
	Writer io.Writer
	Name   string
}

// Run implements Runnable. It returns nil when the reader reaches EOF.
func (s *PacketSource) Run(ctx context.Context) error {
	for {
		pkt, err := s.Reader.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		glog.V(2).Infof("%s: %d bytes", s.Name, len(pkt))
		if _, err := s.Writer.Write(pkt); err != nil {
			glog.Warningf("%s: %v", s.Name, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// StreamWriter writes packets to a byte stream.
type StreamWriter struct {
	io.WriteCloser
}

// WritePacket implements PacketWriter.
func (w *StreamWriter) WritePacket(pkt []byte) error {
	_, err := w.Write(pkt)
	return err
}

// DiscardSink drops everything, used for dry runs.
type DiscardSink struct{}

// WritePacket implements PacketWriter.
func (DiscardSink) WritePacket(pkt []byte) error {
	glog.V(1).Infof("discard % x", pkt)
	return nil
}

// Close implements io.Closer.
func (DiscardSink) Close() error { return nil }

func init() {
	RegisterScheme("null", func(*url.URL) (Sink, error) { return DiscardSink{}, nil })
}
