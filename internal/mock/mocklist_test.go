package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListDefaultsToTwoItems(t *testing.T) {
	rt := newTestRuntime(t, nil)

	users, err := rt.Resolve(context.Background(), "Query", "users", nil, nil)
	require.NoError(t, err)
	list, ok := users.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	for _, item := range list {
		_, ok := item.(map[string]any)
		require.True(t, ok, "each item should be a synthesized composite, got %T", item)
	}
}

func TestMockListValidation(t *testing.T) {
	_, err := NewMockList(-1, nil)
	require.Error(t, err)

	_, err = NewMockListRange(3, 1, nil)
	require.Error(t, err)

	_, err = NewMockListRange(-1, 2, nil)
	require.Error(t, err)

	l, err := NewMockList(0, nil)
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestMockListFixedCount(t *testing.T) {
	list, err := NewMockList(5, nil)
	require.NoError(t, err)

	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"users": list}, nil
		},
	})

	users, err := rt.Resolve(context.Background(), "Query", "users", nil, nil)
	require.NoError(t, err)
	items, ok := users.([]any)
	require.True(t, ok)
	require.Len(t, items, 5)
	for _, item := range items {
		_, ok := item.(map[string]any)
		require.True(t, ok, "items without a generator delegate to the synthesizer, got %T", item)
	}
}

func TestMockListRangeLengths(t *testing.T) {
	list, err := NewMockListRange(2, 4, nil)
	require.NoError(t, err)

	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"users": list}, nil
		},
	})

	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		users, err := rt.Resolve(context.Background(), "Query", "users", nil, nil)
		require.NoError(t, err)
		items, ok := users.([]any)
		require.True(t, ok)
		n := len(items)
		require.GreaterOrEqual(t, n, 2)
		require.LessOrEqual(t, n, 4)
		seen[n] = true
	}
	require.GreaterOrEqual(t, len(seen), 2, "1000 trials must observe at least two distinct lengths")
}

func TestMockListItemGenerator(t *testing.T) {
	list, err := NewMockList(3, func(ctx context.Context, req Request) (any, error) {
		return map[string]any{"name": "Item"}, nil
	})
	require.NoError(t, err)

	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"users": list}, nil
		},
	})

	users, err := rt.Resolve(context.Background(), "Query", "users", nil, nil)
	require.NoError(t, err)
	items, ok := users.([]any)
	require.True(t, ok)
	require.Len(t, items, 3)
	for _, item := range items {
		m, ok := item.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "Item", m["name"])
	}
}

func TestMockListFromOverrideGenerator(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{
				"users": Generator(func(ctx context.Context, req Request) (any, error) {
					return NewMockList(4, nil)
				}),
			}, nil
		},
	})

	users, err := rt.Resolve(context.Background(), "Query", "users", nil, nil)
	require.NoError(t, err)
	items, ok := users.([]any)
	require.True(t, ok)
	require.Len(t, items, 4)
}

func TestMockListForNonListType(t *testing.T) {
	list, err := NewMockList(2, nil)
	require.NoError(t, err)

	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"user": list}, nil
		},
	})

	_, err = rt.Resolve(context.Background(), "Query", "user", nil, nil)
	require.ErrorContains(t, err, "non-list type")
}
