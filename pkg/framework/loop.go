package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick interval when Loop.Interval is not set.
const DefaultInterval = 5 * time.Millisecond

// Loop steps servicers at a fixed interval, or immediately when
// triggered.
type Loop struct {
	Interval time.Duration

	servicers []Servicer
	runners   []Runnable

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddServicer registers servicers in the order they are stepped.
// A servicer which is also a Runnable is started with the loop.
func (l *Loop) AddServicer(servicers ...Servicer) *Loop {
	l.servicers = append(l.servicers, servicers...)
	for _, s := range servicers {
		if runner, ok := s.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementations.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick()
		case <-l.wakeUpCh:
			l.Tick()
		}
	}
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Tick steps every servicer once.
func (l *Loop) Tick() {
	for _, s := range l.servicers {
		if err := s.Service(); err != nil {
			glog.Errorf("service error: %v", err)
		}
	}
}
