package mock

import (
	"context"
	"fmt"

	schema "github.com/graphmock/graphmock/internal/schema"
)

// MockList describes the cardinality of a list-typed value and an optional
// per-item generator. Overrides return one from a Generator (or place one
// directly on a parent-defined field) to control list length; without it,
// lists default to two synthesized items.
type MockList struct {
	low, high int
	item      Generator
}

// NewMockList builds a MockList producing exactly count items. item may be
// nil, in which case each position is synthesized from the element type.
func NewMockList(count int, item Generator) (*MockList, error) {
	if count < 0 {
		return nil, fmt.Errorf("mock: list count must be non-negative, got %d", count)
	}
	return &MockList{low: count, high: count, item: item}, nil
}

// NewMockListRange builds a MockList whose length is drawn uniformly from
// the inclusive range [low, high].
func NewMockListRange(low, high int, item Generator) (*MockList, error) {
	if low < 0 || high < low {
		return nil, fmt.Errorf("mock: invalid list length range [%d, %d]", low, high)
	}
	return &MockList{low: low, high: high, item: item}, nil
}

func (l *MockList) length(rnd *lockedRand) int {
	if l.high == l.low {
		return l.low
	}
	return l.low + rnd.Intn(l.high-l.low+1)
}

// expandList materializes a MockList against a list type. Per position the
// item generator runs if present; an item result that is itself a MockList
// expands recursively against the inner list type. Without an item
// generator each position is synthesized from the element type.
func (r *Runtime) expandList(ctx context.Context, l *MockList, listType *schema.TypeRef, req Request) (any, error) {
	lt := listType.Nullable()
	if lt == nil || lt.Kind != schema.TypeRefKindList {
		return nil, fmt.Errorf("mock: list of %d items returned for non-list type %s", l.length(r.rnd), listType)
	}
	elem := lt.OfType

	n := l.length(r.rnd)
	out := make([]any, n)
	for i := range out {
		if l.item == nil {
			v, err := r.synthesize(ctx, elem, Request{Args: req.Args, Object: req.Object, Type: elem})
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		v, err := l.item(ctx, Request{Source: req.Source, Args: req.Args, Object: req.Object, Type: elem})
		if err != nil {
			return nil, err
		}
		if nested, ok := v.(*MockList); ok {
			v, err = r.expandList(ctx, nested, elem, req)
			if err != nil {
				return nil, err
			}
		}
		out[i] = v
	}
	return out, nil
}
