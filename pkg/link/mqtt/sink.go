package mqtt

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robotalks/truetouch/pkg/link"
)

// DefaultPublishTimeout bounds the wait for a publish.
const DefaultPublishTimeout = 5 * time.Second

// Sink publishes frames to the command topic of a device.
type Sink struct {
	Queue   *Queue
	Topic   string
	Timeout time.Duration
}

// WritePacket implements link.PacketWriter.
func (s *Sink) WritePacket(pkt []byte) error {
	token := s.Queue.PubWith(s.Topic, pkt, 1, false)
	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultPublishTimeout
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish %s timed out", s.Topic)
	}
	return token.Error()
}

// Close implements io.Closer.
func (s *Sink) Close() error {
	return s.Queue.Close()
}

// Dial connects to a broker and returns the Sink of a device, e.g.
// mqtt://localhost:1883/truetouch/?device=truetouch/abc.
func Dial(u *url.URL) (link.Sink, error) {
	ref, err := link.ParseDeviceRef(u.Query().Get("device"))
	if err != nil {
		return nil, err
	}
	opts := clientOptions(u)
	if opts.ClientID == "" {
		opts.SetClientID(fmt.Sprintf("ttctl:%s:%d", ref.Name(), time.Now().UnixNano()))
	}
	q := NewQueue(opts, strings.TrimPrefix(u.Path, "/"))
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &Sink{Queue: q, Topic: DeviceTopic(ref, CmdTopic)}, nil
}

func init() {
	link.RegisterScheme("mqtt", Dial)
	link.RegisterScheme("mqtts", Dial)
}
