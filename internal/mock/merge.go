package mock

import (
	"context"
	"errors"
	"time"
)

type outcome struct {
	val any
	err error
}

// mergeOutcome runs the synthesized and real paths concurrently, joins, and
// reconciles:
//
//   - a synthesis sentinel (ErrNoMock, ErrMissingDiscriminator) surfaces
//     only when the real outcome is undefined; otherwise the real value
//     wins silently
//   - real errors always surface
//   - date-like values prefer the real one when defined
//   - composites start from a full copy of the real value, including
//     properties outside the declared field set, and synthesized
//     properties fill only the gaps
//   - anything else prefers the real value when defined
func (r *Runtime) mergeOutcome(ctx context.Context, synthesize, real func(context.Context) (any, error)) (any, error) {
	realCh := make(chan outcome, 1)
	go func() {
		v, err := real(ctx)
		realCh <- outcome{v, err}
	}()

	sv, serr := synthesize(ctx)
	ro := <-realCh

	if serr != nil {
		if errors.Is(serr, ErrNoMock) || errors.Is(serr, ErrMissingDiscriminator) {
			if ro.err != nil {
				return nil, ro.err
			}
			if isDefined(ro.val) {
				return ro.val, nil
			}
			return nil, serr
		}
		return nil, serr
	}
	if ro.err != nil {
		return nil, ro.err
	}

	if _, ok := sv.(time.Time); ok {
		if rt, ok := ro.val.(time.Time); ok {
			return rt, nil
		}
		if isDefined(ro.val) {
			return ro.val, nil
		}
		return sv, nil
	}

	sm, sok := sv.(map[string]any)
	rm, rok := ro.val.(map[string]any)
	if sok && rok {
		out := make(map[string]any, len(rm)+len(sm))
		for k, v := range rm {
			out[k] = v
		}
		for k, v := range sm {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
		return out, nil
	}

	if isDefined(ro.val) {
		return ro.val, nil
	}
	return sv, nil
}
