package framework

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("a"), nil, errors.New("b"))
	require.Equal(t, 2, errs.Len())
	err := errs.Aggregate()
	require.Error(t, err)
	require.Equal(t, "Multiple errors:\na\nb", err.Error())
}

func TestLoopTickOrder(t *testing.T) {
	var order []string
	l := NewLoop().AddServicer(
		ServiceFunc(func() error { order = append(order, "first"); return nil }),
		ServiceFunc(func() error { order = append(order, "second"); return errors.New("ignored") }),
		ServiceFunc(func() error { order = append(order, "third"); return nil }),
	)
	l.Tick()
	l.Tick()
	require.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, order)
}

type countingServicer struct {
	ticks int32
	runs  int32
}

func (s *countingServicer) Service() error {
	atomic.AddInt32(&s.ticks, 1)
	return nil
}

func (s *countingServicer) Run(ctx context.Context) error {
	atomic.AddInt32(&s.runs, 1)
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopRun(t *testing.T) {
	s := &countingServicer{}
	l := NewLoop().AddServicer(s)
	l.Interval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	l.TriggerNext()
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&s.ticks) == 0 {
		require.True(t, time.Now().Before(deadline), "not ticked")
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("loop not stopped")
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&s.runs))
}

func TestRunnerWait(t *testing.T) {
	failure := errors.New("failed")
	r := NewRunner().Go(
		NamedRun("ok", RunFunc(func(context.Context) error { return nil })),
		NamedRun("fail", RunFunc(func(context.Context) error { return failure })),
	)
	err := r.Wait()
	require.Error(t, err)
	require.Equal(t, []error{failure}, err.(*AggregatedError).Errors)
}

type closer struct {
	closed int32
	ch     chan struct{}
}

func (c *closer) Close() error {
	if atomic.AddInt32(&c.closed, 1) == 1 {
		close(c.ch)
	}
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closer{ch: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.ch
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&c.closed))

	c = &closer{ch: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), c, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&c.closed))
}

func TestManualClockWraps(t *testing.T) {
	var c ManualClock
	c.Set(math.MaxUint32 - 10)
	require.Equal(t, uint32(9), c.Advance(20))
	require.Equal(t, uint32(9), c.Millis())
}

func TestSystemClock(t *testing.T) {
	c := NewSystemClock()
	require.True(t, c.Millis() < 1000)
}
