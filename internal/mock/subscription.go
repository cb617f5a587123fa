package mock

import (
	"context"
)

// EventSource delivers subscription events. The channel closes when the
// source is exhausted.
type EventSource interface {
	Events() <-chan any
	Close() error
}

// SubscriptionRuntime is implemented by upstream runtimes that can open
// real subscription sources.
type SubscriptionRuntime interface {
	ResolveSubscription(ctx context.Context, field string, args map[string]any) (EventSource, error)
}

// ResolveSubscription returns the event source for a subscription field.
// The default install is an immediately exhausted source. Under
// preservation the upstream source is opened concurrently and preferred
// whenever it yields a usable one.
func (r *Runtime) ResolveSubscription(ctx context.Context, field string, args map[string]any) (EventSource, error) {
	if r.preserve {
		if sub, ok := r.upstream.(SubscriptionRuntime); ok {
			ch := make(chan outcomeSource, 1)
			go func() {
				s, err := sub.ResolveSubscription(ctx, field, args)
				ch <- outcomeSource{s, err}
			}()
			mock := newExhaustedSource()
			o := <-ch
			if o.err == nil && o.src != nil {
				mock.Close()
				return o.src, nil
			}
			return mock, nil
		}
	}
	return newExhaustedSource(), nil
}

type outcomeSource struct {
	src EventSource
	err error
}

type exhaustedSource struct {
	ch chan any
}

func newExhaustedSource() *exhaustedSource {
	s := &exhaustedSource{ch: make(chan any)}
	close(s.ch)
	return s
}

func (s *exhaustedSource) Events() <-chan any { return s.ch }
func (s *exhaustedSource) Close() error       { return nil }
