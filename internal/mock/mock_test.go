package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	schema "github.com/graphmock/graphmock/internal/schema"
)

const testSDL = `
type Query {
  user: User
  users: [User]
  node: Node
  search: Search
  custom: Mystery
  when: Date
}

type User {
  id: ID
  name: String
  age: Int
  score: Float
  active: Boolean
  role: Role
  friends: [User]
}

enum Role {
  ADMIN
  MEMBER
}

interface Node {
  id: ID
}

type Post implements Node {
  id: ID
  title: String
}

type Comment implements Node {
  id: ID
  body: String
}

union Search = Post | Comment

scalar Mystery
scalar Date
`

func buildTestSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL(testSDL)
	require.NoError(t, err)
	return sch
}

func newTestRuntime(t *testing.T, mocks map[string]Generator) *Runtime {
	t.Helper()
	rt, err := New(Options{Schema: buildTestSchema(t), Mocks: mocks})
	require.NoError(t, err)
	return rt
}

func TestNewValidation(t *testing.T) {
	sch := buildTestSchema(t)

	_, err := New(Options{})
	require.ErrorContains(t, err, "schema is required")

	_, err = New(Options{Schema: sch, Mocks: map[string]Generator{"User": nil}})
	require.ErrorContains(t, err, `generator for type "User" is nil`)

	_, err = New(Options{Schema: sch, PreserveResolvers: true})
	require.ErrorContains(t, err, "requires an Upstream runtime")
}

func TestDefaultScalarGenerators(t *testing.T) {
	rt := newTestRuntime(t, nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		age, err := rt.Resolve(ctx, "User", "age", map[string]any{}, nil)
		require.NoError(t, err)
		n, ok := age.(int)
		require.True(t, ok, "age should be an int, got %T", age)
		require.GreaterOrEqual(t, n, -100)
		require.LessOrEqual(t, n, 100)

		score, err := rt.Resolve(ctx, "User", "score", map[string]any{}, nil)
		require.NoError(t, err)
		f, ok := score.(float64)
		require.True(t, ok, "score should be a float64, got %T", score)
		require.GreaterOrEqual(t, f, -100.0)
		require.Less(t, f, 100.0)

		name, err := rt.Resolve(ctx, "User", "name", map[string]any{}, nil)
		require.NoError(t, err)
		require.Equal(t, "Hello World", name)

		active, err := rt.Resolve(ctx, "User", "active", map[string]any{}, nil)
		require.NoError(t, err)
		_, ok = active.(bool)
		require.True(t, ok, "active should be a bool, got %T", active)

		id, err := rt.Resolve(ctx, "User", "id", map[string]any{}, nil)
		require.NoError(t, err)
		s, ok := id.(string)
		require.True(t, ok, "id should be a string, got %T", id)
		_, err = uuid.Parse(s)
		require.NoError(t, err, "id should be UUID-shaped: %q", s)
	}
}

func TestEnumPicksDeclaredValue(t *testing.T) {
	rt := newTestRuntime(t, nil)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		role, err := rt.Resolve(context.Background(), "User", "role", map[string]any{}, nil)
		require.NoError(t, err)
		name, ok := role.(string)
		require.True(t, ok)
		require.Contains(t, []string{"ADMIN", "MEMBER"}, name)
		seen[name] = true
	}
	require.Len(t, seen, 2, "both enum values should appear over 200 trials")
}

func TestObjectSynthesizesEmptyComposite(t *testing.T) {
	rt := newTestRuntime(t, nil)

	user, err := rt.Resolve(context.Background(), "Query", "user", nil, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{}, user)
}

func TestParentDefinedValueWins(t *testing.T) {
	rt := newTestRuntime(t, nil)
	source := map[string]any{"name": "Explicit"}

	name, err := rt.Resolve(context.Background(), "User", "name", source, nil)
	require.NoError(t, err)
	require.Equal(t, "Explicit", name)
}

func TestParentDefinedGeneratorIsInvoked(t *testing.T) {
	rt := newTestRuntime(t, nil)
	source := map[string]any{
		"name": Generator(func(ctx context.Context, req Request) (any, error) {
			return "FromGenerator", nil
		}),
	}

	name, err := rt.Resolve(context.Background(), "User", "name", source, nil)
	require.NoError(t, err)
	require.Equal(t, "FromGenerator", name)
}

func TestRootOverridePopulatesParent(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{
				"user": func(ctx context.Context, req Request) (any, error) {
					return map[string]any{"name": "FromRoot"}, nil
				},
			}, nil
		},
	})

	user, err := rt.Resolve(context.Background(), "Query", "user", nil, nil)
	require.NoError(t, err)
	m, ok := user.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "FromRoot", m["name"])
}

func TestOverrideMergeKeepsExplicitProperties(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Query": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"user": map[string]any{"name": "Explicit"}}, nil
		},
		"User": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"name": "Default", "age": 30}, nil
		},
	})

	user, err := rt.Resolve(context.Background(), "Query", "user", nil, nil)
	require.NoError(t, err)
	m, ok := user.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Explicit", m["name"], "explicit property must survive the merge")
	require.Equal(t, 30, m["age"], "override fills the gap")
}

func TestAbstractRandomDiscrimination(t *testing.T) {
	rt := newTestRuntime(t, nil)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		node, err := rt.Resolve(context.Background(), "Query", "node", nil, nil)
		require.NoError(t, err)
		m, ok := node.(map[string]any)
		require.True(t, ok)
		name, ok := m["__typename"].(string)
		require.True(t, ok, "abstract synthesis must carry a discriminator")
		require.Contains(t, []string{"Post", "Comment"}, name)
		seen[name] = true
	}
	require.Len(t, seen, 2, "both implementing types should appear over 200 trials")
}

func TestAbstractOverrideDiscriminator(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Node": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"__typename": "Post", "title": "Pinned"}, nil
		},
	})

	for i := 0; i < 50; i++ {
		node, err := rt.Resolve(context.Background(), "Query", "node", nil, nil)
		require.NoError(t, err)
		m, ok := node.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "Post", m["__typename"])
		require.Equal(t, "Pinned", m["title"])
	}
}

func TestAbstractOverrideMissingDiscriminator(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Node": func(ctx context.Context, req Request) (any, error) {
			return map[string]any{"id": "1"}, nil
		},
	})

	_, err := rt.Resolve(context.Background(), "Query", "node", nil, nil)
	require.ErrorIs(t, err, ErrMissingDiscriminator)
}

func TestUnionRandomDiscrimination(t *testing.T) {
	rt := newTestRuntime(t, nil)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		v, err := rt.Resolve(context.Background(), "Query", "search", nil, nil)
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		seen[m["__typename"].(string)] = true
	}
	require.Len(t, seen, 2)
}

func TestNoMockSentinel(t *testing.T) {
	rt := newTestRuntime(t, nil)

	_, err := rt.Resolve(context.Background(), "Query", "custom", nil, nil)
	require.ErrorIs(t, err, ErrNoMock)
}

func TestScalarOverride(t *testing.T) {
	rt := newTestRuntime(t, map[string]Generator{
		"Mystery": func(ctx context.Context, req Request) (any, error) {
			return "solved", nil
		},
	})

	v, err := rt.Resolve(context.Background(), "Query", "custom", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "solved", v)
}

func TestResolveTypeReadsDiscriminator(t *testing.T) {
	rt := newTestRuntime(t, nil)

	name, err := rt.ResolveType(context.Background(), "Node", map[string]any{"__typename": "Post"})
	require.NoError(t, err)
	require.Equal(t, "Post", name)

	_, err = rt.ResolveType(context.Background(), "Node", map[string]any{"id": "1"})
	require.ErrorIs(t, err, ErrMissingDiscriminator)
}

func TestSubscriptionDefaultIsExhausted(t *testing.T) {
	rt := newTestRuntime(t, nil)

	src, err := rt.ResolveSubscription(context.Background(), "events", nil)
	require.NoError(t, err)
	_, open := <-src.Events()
	require.False(t, open, "default subscription source must be exhausted")
	require.NoError(t, src.Close())
}

func TestResolveUnknownField(t *testing.T) {
	rt := newTestRuntime(t, nil)

	v, err := rt.Resolve(context.Background(), "User", "nickname", map[string]any{"nickname": "Lil"}, nil)
	require.NoError(t, err)
	require.Equal(t, "Lil", v, "uninstalled fields fall back to map reads")

	_, err = rt.Resolve(context.Background(), "User", "nickname", 42, nil)
	require.Error(t, err)
}

func TestOverrideErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	rt := newTestRuntime(t, map[string]Generator{
		"User": func(ctx context.Context, req Request) (any, error) {
			return nil, boom
		},
	})

	_, err := rt.Resolve(context.Background(), "Query", "user", nil, nil)
	require.ErrorIs(t, err, boom)
}
