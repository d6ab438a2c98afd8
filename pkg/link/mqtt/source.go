package mqtt

import (
	"context"
	"io"

	"github.com/golang/glog"
)

// Source writes payloads received on a topic to Writer.
type Source struct {
	Queue  *Queue
	Topic  string
	Writer io.Writer
}

// Name implements framework.Named.
func (s *Source) Name() string {
	return "mqtt:" + s.Queue.TopicPrefix + s.Topic
}

// Run implements Runnable. It only subscribes, the queue connection is
// owned by whoever created the queue.
func (s *Source) Run(ctx context.Context) error {
	sub := s.Queue.Sub(s.Topic, s.handle)
	<-ctx.Done()
	sub.Close()
	return ctx.Err()
}

func (s *Source) handle(topic string, payload []byte) {
	if _, err := s.Writer.Write(payload); err != nil {
		glog.Warningf("%s: %v", s.Name(), err)
	}
}
