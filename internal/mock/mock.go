package mock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	eventbus "github.com/graphmock/graphmock/internal/eventbus"
	events "github.com/graphmock/graphmock/internal/events"
	executor "github.com/graphmock/graphmock/internal/executor"
	schema "github.com/graphmock/graphmock/internal/schema"
)

// Synthesis-time conditions. They are returned, not panicked, so a merge
// with a real resolver can still recover a defined value.
var (
	// ErrNoMock indicates a scalar type with neither an override nor a
	// default generator.
	ErrNoMock = errors.New("no mock defined")

	// ErrMissingDiscriminator indicates an abstract-typed value without a
	// usable __typename.
	ErrMissingDiscriminator = errors.New("missing __typename discriminator")
)

// Request carries the call-time inputs of a Generator.
type Request struct {
	// Source is the parent value the field is being resolved against. Nil
	// for type-level synthesis and for root fields without initial data.
	Source any

	// Args holds the coerced field arguments.
	Args map[string]any

	// Object is the name of the owning composite type.
	Object string

	// Field is the field being resolved. Empty for list items and other
	// recursive synthesis steps.
	Field string

	// Type is the declared type of the field, when known.
	Type *schema.TypeRef
}

// Generator produces a mock value. It may return plain data, a *MockList
// for list-typed positions, or an error. Map values returned for composite
// types may themselves contain Generator values per field.
type Generator func(ctx context.Context, req Request) (any, error)

// Options configures a mock Runtime.
type Options struct {
	// Schema is the type graph to install resolvers over. Required.
	Schema *schema.Schema

	// Mocks maps type names to override generators.
	Mocks map[string]Generator

	// Upstream is the runtime whose resolvers supply real data. Required
	// when PreserveResolvers is set; otherwise optional and unused for
	// field resolution.
	Upstream executor.Runtime

	// PreserveResolvers keeps upstream resolvers alive: fields the
	// upstream covers merge real and synthesized outcomes instead of
	// being overwritten.
	PreserveResolvers bool
}

// ResolverReporter is implemented by upstream runtimes that can report
// which fields they have resolvers for. Upstreams that do not implement it
// are assumed to cover every field.
type ResolverReporter interface {
	HasResolver(objectType, field string) bool
}

type resolver func(ctx context.Context, source any, args map[string]any) (any, error)

// Runtime implements executor.Runtime with synthesized resolvers.
type Runtime struct {
	sch      *schema.Schema
	mocks    map[string]Generator
	defaults map[string]Generator
	rnd      *lockedRand
	upstream executor.Runtime
	preserve bool

	resolvers map[string]resolver
	merged    map[string]bool
}

// New validates opts and installs resolvers for every field of every
// object type in the schema. It fails before any resolver can run if the
// schema is missing, an override is nil, or preservation is requested
// without an upstream.
func New(opts Options) (*Runtime, error) {
	if opts.Schema == nil {
		return nil, fmt.Errorf("mock: schema is required")
	}
	for name, gen := range opts.Mocks {
		if gen == nil {
			return nil, fmt.Errorf("mock: generator for type %q is nil", name)
		}
	}
	if opts.PreserveResolvers && opts.Upstream == nil {
		return nil, fmt.Errorf("mock: PreserveResolvers requires an Upstream runtime")
	}

	r := &Runtime{
		sch:       opts.Schema,
		mocks:     make(map[string]Generator, len(opts.Mocks)),
		rnd:       newLockedRand(),
		upstream:  opts.Upstream,
		preserve:  opts.PreserveResolvers,
		resolvers: make(map[string]resolver),
		merged:    make(map[string]bool),
	}
	for name, gen := range opts.Mocks {
		r.mocks[name] = gen
	}
	r.defaults = newDefaultTable(r.rnd)
	r.install()
	return r, nil
}

func (r *Runtime) install() {
	for _, t := range r.sch.Types {
		if t.Kind != schema.TypeKindObject {
			continue
		}
		for _, f := range t.Fields {
			r.resolvers[t.Name+"."+f.Name] = r.fieldResolver(t, f)
		}
	}
}

// fieldResolver builds the installed resolver for one field. Root types
// have no real parent resolver, so a root-type override is invoked first to
// produce the parent value the synthesizer reads field data from.
func (r *Runtime) fieldResolver(obj *schema.Type, f *schema.Field) resolver {
	synth := func(ctx context.Context, source any, args map[string]any) (any, error) {
		src := source
		if !isDefined(src) && r.sch.IsRootType(obj.Name) {
			if gen, ok := r.mocks[obj.Name]; ok {
				root, err := gen(ctx, Request{Args: args, Object: obj.Name, Field: f.Name, Type: f.Type})
				if err != nil {
					return nil, err
				}
				src = root
			}
		}
		return r.synthesize(ctx, f.Type, Request{
			Source: src,
			Args:   args,
			Object: obj.Name,
			Field:  f.Name,
			Type:   f.Type,
		})
	}

	if r.preserve && r.upstreamHasResolver(obj.Name, f.Name) {
		r.merged[obj.Name+"."+f.Name] = true
		return func(ctx context.Context, source any, args map[string]any) (any, error) {
			return r.mergeOutcome(ctx,
				func(ctx context.Context) (any, error) { return synth(ctx, source, args) },
				func(ctx context.Context) (any, error) {
					return r.upstream.Resolve(ctx, obj.Name, f.Name, source, args)
				},
			)
		}
	}
	return synth
}

func (r *Runtime) upstreamHasResolver(objectType, field string) bool {
	if rep, ok := r.upstream.(ResolverReporter); ok {
		return rep.HasResolver(objectType, field)
	}
	return r.upstream != nil
}

// Resolve implements executor.Runtime.
func (r *Runtime) Resolve(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	key := objectType + "." + field
	if res, ok := r.resolvers[key]; ok {
		start := time.Now()
		v, err := res(ctx, source, args)
		eventbus.Publish(ctx, events.MockResolve{
			ObjectType: objectType,
			Field:      field,
			Merged:     r.merged[key],
			Err:        err,
			Duration:   time.Since(start),
		})
		return v, err
	}
	if m, ok := source.(map[string]any); ok {
		return m[field], nil
	}
	return nil, fmt.Errorf("mock: no resolver installed for %s.%s", objectType, field)
}

// ResolveType implements executor.Runtime. Under preservation the upstream
// discriminator runs first; the __typename convention is the fallback and
// matches what the synthesizer writes for abstract types.
func (r *Runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	if r.preserve && r.upstream != nil {
		if name, err := r.upstream.ResolveType(ctx, abstractType, value); err == nil && name != "" {
			return name, nil
		}
	}
	if m, ok := value.(map[string]any); ok {
		if name, ok := m["__typename"].(string); ok && name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w for abstract type %s", ErrMissingDiscriminator, abstractType)
}

// SerializeLeafValue implements executor.Runtime. Synthesized values are
// already in response form; real leaf values go through the upstream
// serializer when one is preserved.
func (r *Runtime) SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error) {
	if r.preserve && r.upstream != nil {
		return r.upstream.SerializeLeafValue(ctx, scalarOrEnumTypeName, value)
	}
	return value, nil
}

// lockedRand serializes access to a math/rand source so resolvers can run
// from concurrent requests. Not seeded deterministically; synthesis is
// independently non-reproducible per invocation.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand() *lockedRand {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}

// isDefined reports whether v is a usable value: neither nil nor a typed nil.
func isDefined(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}
