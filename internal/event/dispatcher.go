package event

import (
	"context"
	"time"

	"anoa.com/blogsocial/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sink delivers committed events somewhere outside the graph store.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, events []Event) error
}

const publishTimeout = 10 * time.Second

// Dispatcher fans events out to every sink. A failing sink never affects the
// others, and never the operation that produced the events.
type Dispatcher struct {
	sinks []Sink
	log   *zap.Logger
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{sinks: sinks, log: log}
}

func (d *Dispatcher) Sinks() []Sink {
	return d.sinks
}

// Dispatch delivers events to all sinks concurrently and returns the first
// sink error. Every error is logged.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	var g errgroup.Group
	for _, sink := range d.sinks {
		g.Go(func() error {
			err := sink.Deliver(ctx, events)
			metrics.CountDispatch(sink.Name(), err)
			if err != nil {
				d.log.Warn("event delivery failed", zap.String("sink", sink.Name()), zap.Int("events", len(events)), zap.Error(err))
			}
			return err
		})
	}
	return g.Wait()
}

// Publish dispatches in the background, detached from the request context.
func (d *Dispatcher) Publish(ctx context.Context, events []Event) {
	if len(events) == 0 || len(d.sinks) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	go func() {
		defer cancel()
		_ = d.Dispatch(ctx, events)
	}()
}
