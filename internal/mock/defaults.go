package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// newDefaultTable builds the default scalar generators for one Runtime.
// The table is constructed once per installation and never mutated, so
// concurrent resolvers share it without locking.
//
// Value domains: Int in [-100,100], Float in [-100,100), String is a fixed
// placeholder, Boolean is a fair coin, ID is a v4-shaped UUID drawn from
// the runtime's math/rand source (not cryptographically secure).
func newDefaultTable(rnd *lockedRand) map[string]Generator {
	return map[string]Generator{
		"Int": func(ctx context.Context, req Request) (any, error) {
			return rnd.Intn(201) - 100, nil
		},
		"Float": func(ctx context.Context, req Request) (any, error) {
			return rnd.Float64()*200 - 100, nil
		},
		"String": func(ctx context.Context, req Request) (any, error) {
			return "Hello World", nil
		},
		"Boolean": func(ctx context.Context, req Request) (any, error) {
			return rnd.Intn(2) == 1, nil
		},
		"ID": func(ctx context.Context, req Request) (any, error) {
			id, err := uuid.NewRandomFromReader(rnd)
			if err != nil {
				return nil, fmt.Errorf("mock: generating id: %w", err)
			}
			return id.String(), nil
		},
	}
}
