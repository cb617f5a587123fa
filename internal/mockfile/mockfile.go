// Package mockfile loads static mock data from a YAML file and turns it
// into generators for the mock runtime.
//
// File layout:
//
//	mocks:
//	  User:
//	    name: Ada
//	  Date: "2024-01-01"
//	lists:
//	  Query.users: 5
//	  User.friends: [2, 4]
//
// Entries under mocks are static values returned for the named type. Lists
// set the cardinality of a list field, either a fixed count or an
// inclusive [low, high] range, and fold into the owning type's mock.
package mockfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	mock "github.com/graphmock/graphmock/internal/mock"
)

// File is the parsed mock configuration.
type File struct {
	Mocks map[string]any `yaml:"mocks"`
	Lists map[string]any `yaml:"lists"`
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mockfile: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mockfile: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML mock configuration.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &f, nil
}

// Generators converts the file into per-type generators. List entries are
// folded into the owning type's static value as MockLists; a conflicting
// explicit value for the same field is an error.
func (f *File) Generators() (map[string]mock.Generator, error) {
	statics := make(map[string]any, len(f.Mocks))
	for name, v := range f.Mocks {
		statics[name] = normalize(v)
	}

	for key, spec := range f.Lists {
		typeName, fieldName, ok := strings.Cut(key, ".")
		if !ok || typeName == "" || fieldName == "" {
			return nil, fmt.Errorf("invalid list key %q, want \"Type.field\"", key)
		}
		list, err := parseListSpec(key, spec)
		if err != nil {
			return nil, err
		}

		entry, ok := statics[typeName]
		if !ok {
			entry = map[string]any{}
		}
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("list %q conflicts with non-object mock for type %s", key, typeName)
		}
		if _, exists := m[fieldName]; exists {
			return nil, fmt.Errorf("list %q conflicts with an explicit mock for the same field", key)
		}
		m[fieldName] = list
		statics[typeName] = m
	}

	out := make(map[string]mock.Generator, len(statics))
	for name, v := range statics {
		out[name] = staticGenerator(v)
	}
	return out, nil
}

func parseListSpec(key string, spec any) (*mock.MockList, error) {
	switch v := spec.(type) {
	case int:
		l, err := mock.NewMockList(v, nil)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", key, err)
		}
		return l, nil
	case []any:
		if len(v) != 2 {
			return nil, fmt.Errorf("list %q: range must be [low, high]", key)
		}
		low, lok := v[0].(int)
		high, hok := v[1].(int)
		if !lok || !hok {
			return nil, fmt.Errorf("list %q: range bounds must be integers", key)
		}
		l, err := mock.NewMockListRange(low, high, nil)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", key, err)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("list %q: want an integer count or [low, high], got %T", key, spec)
	}
}

func staticGenerator(v any) mock.Generator {
	return func(ctx context.Context, req mock.Request) (any, error) {
		return clone(v), nil
	}
}

// normalize rewrites decoded YAML maps to string keys so generator output
// matches what the synthesizer expects.
func normalize(v any) any {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, mv := range m {
			out[k] = normalize(mv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, mv := range m {
			out[fmt.Sprint(k)] = normalize(mv)
		}
		return out
	case []any:
		out := make([]any, len(m))
		for i, mv := range m {
			out[i] = normalize(mv)
		}
		return out
	default:
		return v
	}
}

// clone deep-copies static values so one request cannot mutate another's
// mock data. MockLists are shared; they are immutable.
func clone(v any) any {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, mv := range m {
			out[k] = clone(mv)
		}
		return out
	case []any:
		out := make([]any, len(m))
		for i, mv := range m {
			out[i] = clone(mv)
		}
		return out
	default:
		return v
	}
}
