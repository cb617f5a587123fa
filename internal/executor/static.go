package executor

import (
	"context"
	"fmt"
	"sync"
)

// Resolver resolves a single field value.
type Resolver func(ctx context.Context, source any, args map[string]any) (any, error)

// NewValueResolver returns a Resolver that always returns the provided value.
func NewValueResolver(val any) Resolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return val, nil
	}
}

// NewErrorResolver returns a Resolver that always returns the provided error.
func NewErrorResolver(err error) Resolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return nil, err
	}
}

// Call records a single resolver invocation.
type Call struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// StaticRuntime implements Runtime with a map of resolvers keyed by
// "ObjectType.Field". Fields without a resolver read the field name off a
// map source, so plain data trees resolve without any configuration.
//
// It doubles as a source of "real" resolvers: mock installation can wrap
// a StaticRuntime and merge synthesized values with the ones it produces.
type StaticRuntime struct {
	mu        sync.Mutex
	resolvers map[string]Resolver
	calls     []Call

	typeResolver func(value any) (string, error)
	serializer   func(typeName string, val any) (any, error)
}

// NewStaticRuntime creates a StaticRuntime with the provided resolvers.
// The resolvers map keys are of the form "ObjectType.Field".
func NewStaticRuntime(resolvers map[string]Resolver) *StaticRuntime {
	m := &StaticRuntime{resolvers: make(map[string]Resolver)}
	m.typeResolver = func(value any) (string, error) {
		if mv, ok := value.(map[string]any); ok {
			if typename, ok := mv["__typename"].(string); ok {
				return typename, nil
			}
		}
		return "", fmt.Errorf("cannot resolve type")
	}
	m.serializer = func(typeName string, val any) (any, error) {
		return val, nil
	}
	for k, v := range resolvers {
		m.resolvers[k] = v
	}
	return m
}

// SetResolver registers or updates a resolver for the given object type and field.
func (m *StaticRuntime) SetResolver(objectType, field string, resolver Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[objectType+"."+field] = resolver
}

// SetTypeResolver replaces the abstract type discriminator.
func (m *StaticRuntime) SetTypeResolver(f func(value any) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeResolver = f
}

// SetSerializer replaces the leaf serializer.
func (m *StaticRuntime) SetSerializer(f func(typeName string, val any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serializer = f
}

// HasResolver reports whether a resolver is registered for the field.
func (m *StaticRuntime) HasResolver(objectType, field string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.resolvers[objectType+"."+field]
	return ok
}

// Resolve implements Runtime.
func (m *StaticRuntime) Resolve(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	m.mu.Lock()
	r := m.resolvers[objectType+"."+field]
	m.calls = append(m.calls, Call{ObjectType: objectType, Field: field, Source: source, Args: args})
	m.mu.Unlock()

	if r != nil {
		return r(ctx, source, args)
	}
	if mv, ok := source.(map[string]any); ok {
		return mv[field], nil
	}
	return nil, nil
}

// ResolveType implements Runtime.
func (m *StaticRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	m.mu.Lock()
	f := m.typeResolver
	m.mu.Unlock()
	if f == nil {
		return "", fmt.Errorf("type resolver not configured")
	}
	return f(value)
}

// SerializeLeafValue implements Runtime.
func (m *StaticRuntime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	m.mu.Lock()
	f := m.serializer
	m.mu.Unlock()
	if f == nil {
		return value, nil
	}
	return f(scalarOrEnumTypeName, value)
}

// GetCalls returns a copy of the recorded calls in order.
func (m *StaticRuntime) GetCalls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls (resolvers remain).
func (m *StaticRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
