package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	executor "github.com/graphmock/graphmock/internal/executor"
	language "github.com/graphmock/graphmock/internal/language"
)

func TestMergeOutcomePrefersRealValue(t *testing.T) {
	rt := newTestRuntime(t, nil)

	v, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return "synthesized", nil },
		func(ctx context.Context) (any, error) { return "real", nil },
	)
	require.NoError(t, err)
	require.Equal(t, "real", v)
}

func TestMergeOutcomeFallsBackToSynthesized(t *testing.T) {
	rt := newTestRuntime(t, nil)

	v, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return "synthesized", nil },
		func(ctx context.Context) (any, error) { return nil, nil },
	)
	require.NoError(t, err)
	require.Equal(t, "synthesized", v)
}

func TestMergeOutcomeSentinelRecovery(t *testing.T) {
	rt := newTestRuntime(t, nil)

	t.Run("Real value masks the sentinel", func(t *testing.T) {
		v, err := rt.mergeOutcome(context.Background(),
			func(ctx context.Context) (any, error) { return nil, ErrNoMock },
			func(ctx context.Context) (any, error) { return 42, nil },
		)
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("Undefined real value surfaces the sentinel", func(t *testing.T) {
		_, err := rt.mergeOutcome(context.Background(),
			func(ctx context.Context) (any, error) { return nil, ErrNoMock },
			func(ctx context.Context) (any, error) { return nil, nil },
		)
		require.ErrorIs(t, err, ErrNoMock)
	})
}

func TestMergeOutcomeRealErrorSurfaces(t *testing.T) {
	rt := newTestRuntime(t, nil)
	boom := errors.New("backend down")

	_, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return "synthesized", nil },
		func(ctx context.Context) (any, error) { return nil, boom },
	)
	require.ErrorIs(t, err, boom)
}

func TestMergeOutcomeNonSentinelSynthesisErrorSurfaces(t *testing.T) {
	rt := newTestRuntime(t, nil)
	boom := errors.New("generator panic")

	_, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return nil, boom },
		func(ctx context.Context) (any, error) { return "real", nil },
	)
	require.ErrorIs(t, err, boom)
}

func TestMergeOutcomeDateLike(t *testing.T) {
	rt := newTestRuntime(t, nil)
	synthTime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	realTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	v, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return synthTime, nil },
		func(ctx context.Context) (any, error) { return realTime, nil },
	)
	require.NoError(t, err)
	require.Equal(t, realTime, v)

	v, err = rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) { return synthTime, nil },
		func(ctx context.Context) (any, error) { return nil, nil },
	)
	require.NoError(t, err)
	require.Equal(t, synthTime, v)
}

func TestMergeOutcomeCompositeFill(t *testing.T) {
	rt := newTestRuntime(t, nil)

	v, err := rt.mergeOutcome(context.Background(),
		func(ctx context.Context) (any, error) {
			return map[string]any{"a": "synth", "b": "synth"}, nil
		},
		func(ctx context.Context) (any, error) {
			return map[string]any{"a": "real", "extra": "kept"}, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a":     "real",
		"b":     "synth",
		"extra": "kept",
	}, v, "real properties win, undeclared real properties survive, synthesized fill gaps")
}

func TestPreservationFillsGaps(t *testing.T) {
	upstream := executor.NewStaticRuntime(map[string]executor.Resolver{
		"Query.user": executor.NewValueResolver(map[string]any{"name": "Alice"}),
	})
	rt, err := New(Options{
		Schema:            buildTestSchema(t),
		Upstream:          upstream,
		PreserveResolvers: true,
	})
	require.NoError(t, err)

	exec := executor.NewExecutor(rt, rt.sch)
	doc, err := language.ParseQuery(`{ user { name age } }`)
	require.NoError(t, err)

	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	require.Empty(t, res.Errors)

	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Alice", user["name"], "real value must be preserved")
	age, ok := user["age"].(int)
	require.True(t, ok, "age must be filled by synthesis, got %T", user["age"])
	require.GreaterOrEqual(t, age, -100)
	require.LessOrEqual(t, age, 100)
}

func TestPreservationMasksSentinel(t *testing.T) {
	upstream := executor.NewStaticRuntime(map[string]executor.Resolver{
		"Query.custom": executor.NewValueResolver(42),
	})
	rt, err := New(Options{
		Schema:            buildTestSchema(t),
		Upstream:          upstream,
		PreserveResolvers: true,
	})
	require.NoError(t, err)

	v, err := rt.Resolve(context.Background(), "Query", "custom", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestPreservationWithoutRealResolver(t *testing.T) {
	upstream := executor.NewStaticRuntime(nil)
	rt, err := New(Options{
		Schema:            buildTestSchema(t),
		Upstream:          upstream,
		PreserveResolvers: true,
	})
	require.NoError(t, err)

	_, err = rt.Resolve(context.Background(), "Query", "custom", nil, nil)
	require.ErrorIs(t, err, ErrNoMock, "without a real resolver the sentinel surfaces")

	name, err := rt.Resolve(context.Background(), "User", "name", map[string]any{}, nil)
	require.NoError(t, err)
	require.Equal(t, "Hello World", name)
}

func TestSubscriptionPreservationPrefersReal(t *testing.T) {
	upstream := &subscriptionUpstream{
		StaticRuntime: executor.NewStaticRuntime(nil),
		src:           newSingleEventSource("tick"),
	}
	rt, err := New(Options{
		Schema:            buildTestSchema(t),
		Upstream:          upstream,
		PreserveResolvers: true,
	})
	require.NoError(t, err)

	src, err := rt.ResolveSubscription(context.Background(), "events", nil)
	require.NoError(t, err)
	ev, open := <-src.Events()
	require.True(t, open)
	require.Equal(t, "tick", ev)
}

type subscriptionUpstream struct {
	*executor.StaticRuntime
	src EventSource
}

func (u *subscriptionUpstream) ResolveSubscription(ctx context.Context, field string, args map[string]any) (EventSource, error) {
	return u.src, nil
}

type singleEventSource struct {
	ch chan any
}

func newSingleEventSource(ev any) *singleEventSource {
	s := &singleEventSource{ch: make(chan any, 1)}
	s.ch <- ev
	close(s.ch)
	return s
}

func (s *singleEventSource) Events() <-chan any { return s.ch }
func (s *singleEventSource) Close() error       { return nil }
