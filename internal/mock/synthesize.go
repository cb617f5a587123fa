package mock

import (
	"context"
	"fmt"

	schema "github.com/graphmock/graphmock/internal/schema"
)

// defaultListLength is the sample size for list fields with no MockList.
const defaultListLength = 2

// synthesize produces a value for typ. Precedence, highest first:
//
//  1. a value the parent already defines for the field (invoking Generator
//     values and expanding MockLists), deep-merged with a registered
//     override for the field's named type
//  2. list types synthesize defaultListLength items from the element type
//  3. a registered override for a non-abstract named type
//  4. object types yield an empty composite; their fields resolve through
//     their own installed resolvers
//  5. abstract types discriminate via an override's __typename or a
//     uniformly random concrete type
//  6. enums pick a declared value at random
//  7. the default scalar table, or ErrNoMock
func (r *Runtime) synthesize(ctx context.Context, typ *schema.TypeRef, req Request) (any, error) {
	t := typ.Nullable()
	if t == nil {
		return nil, fmt.Errorf("mock: field %s.%s has no type", req.Object, req.Field)
	}

	if req.Field != "" {
		if src, ok := req.Source.(map[string]any); ok {
			if candidate, defined := src[req.Field]; defined {
				val, err := r.resolveCandidate(ctx, candidate, t, req)
				if err != nil {
					return nil, err
				}
				if gen, ok := r.mocks[t.GetNamedType()]; ok {
					return r.mergeMocks(ctx, gen, val, req)
				}
				return val, nil
			}
		}
	}

	if t.Kind == schema.TypeRefKindList {
		items := make([]any, defaultListLength)
		for i := range items {
			v, err := r.synthesize(ctx, t.OfType, Request{Args: req.Args, Object: req.Object, Type: t.OfType})
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	}

	named := t.GetNamedType()
	def := r.sch.Types[named]
	if def == nil {
		return nil, fmt.Errorf("mock: unknown type %s", named)
	}

	if gen, ok := r.mocks[named]; ok && !def.IsAbstract() {
		return gen(ctx, req)
	}

	switch def.Kind {
	case schema.TypeKindObject:
		return map[string]any{}, nil
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return r.synthesizeAbstract(ctx, def, req)
	case schema.TypeKindEnum:
		if len(def.EnumValues) == 0 {
			return nil, fmt.Errorf("mock: enum %s has no values", named)
		}
		return def.EnumValues[r.rnd.Intn(len(def.EnumValues))].Name, nil
	default:
		if gen, ok := r.defaults[named]; ok {
			return gen(ctx, req)
		}
		return nil, fmt.Errorf("%w for type %s", ErrNoMock, named)
	}
}

// resolveCandidate normalizes a parent-defined field value: Generator
// values are invoked, MockLists expand against the field's list type, and
// anything else passes through.
func (r *Runtime) resolveCandidate(ctx context.Context, candidate any, typ *schema.TypeRef, req Request) (any, error) {
	var gen Generator
	switch c := candidate.(type) {
	case Generator:
		gen = c
	case func(context.Context, Request) (any, error):
		gen = c
	case *MockList:
		return r.expandList(ctx, c, typ, req)
	default:
		return candidate, nil
	}

	v, err := gen(ctx, req)
	if err != nil {
		return nil, err
	}
	if l, ok := v.(*MockList); ok {
		return r.expandList(ctx, l, typ, req)
	}
	return v, nil
}

// synthesizeAbstract resolves an interface or union to a concrete value
// tagged with __typename. An override must name the concrete type itself;
// without one a possible type is chosen uniformly at random.
func (r *Runtime) synthesizeAbstract(ctx context.Context, def *schema.Type, req Request) (any, error) {
	if gen, ok := r.mocks[def.Name]; ok {
		v, err := gen(ctx, req)
		if err != nil {
			return nil, err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: mock for abstract type %s returned %T", ErrMissingDiscriminator, def.Name, v)
		}
		concrete, _ := m["__typename"].(string)
		if concrete == "" {
			return nil, fmt.Errorf("%w: mock for abstract type %s", ErrMissingDiscriminator, def.Name)
		}
		ct := r.sch.Types[concrete]
		if ct == nil || ct.Kind != schema.TypeKindObject {
			return nil, fmt.Errorf("%w: %q does not name a concrete type of %s", ErrMissingDiscriminator, concrete, def.Name)
		}
		base, err := r.synthesize(ctx, schema.NamedType(concrete), Request{Args: req.Args, Object: req.Object})
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		if bm, ok := base.(map[string]any); ok {
			for k, v := range bm {
				out[k] = v
			}
		}
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}

	possible := r.sch.PossibleTypes(def.Name)
	if len(possible) == 0 {
		return nil, fmt.Errorf("mock: abstract type %s has no possible types", def.Name)
	}
	pick := possible[r.rnd.Intn(len(possible))]
	base, err := r.synthesize(ctx, schema.NamedType(pick.Name), Request{Args: req.Args, Object: req.Object})
	if err != nil {
		return nil, err
	}
	if m, ok := base.(map[string]any); ok {
		m["__typename"] = pick.Name
		return m, nil
	}
	return base, nil
}

// mergeMocks deep-merges an override's output under an explicit value the
// parent already defined. Sequences merge element-wise against the same
// generator, composites overlay explicit properties onto a freshly
// generated default, and leaves pass through unchanged.
func (r *Runtime) mergeMocks(ctx context.Context, gen Generator, existing any, req Request) (any, error) {
	switch v := existing.(type) {
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			m, err := r.mergeMocks(ctx, gen, el, req)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case map[string]any:
		base, err := gen(ctx, req)
		if err != nil {
			return nil, err
		}
		bm, ok := base.(map[string]any)
		if !ok {
			return v, nil
		}
		out := make(map[string]any, len(bm)+len(v))
		for k, bv := range bm {
			out[k] = bv
		}
		for k, ev := range v {
			out[k] = ev
		}
		return out, nil
	default:
		return existing, nil
	}
}
