package schema

import (
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Build assembles an executable schema from one or more SDL sources.
// Sources are merged and validated by gqlparser; extensions are folded into
// their base definitions before conversion.
func Build(sources ...*ast.Source) (*Schema, error) {
	astSchema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	s := NewSchema(astSchema.Description)
	if astSchema.Query != nil {
		s.SetQueryType(astSchema.Query.Name)
	}
	if astSchema.Mutation != nil {
		s.SetMutationType(astSchema.Mutation.Name)
	}
	if astSchema.Subscription != nil {
		s.SetSubscriptionType(astSchema.Subscription.Name)
	}

	// Builtins
	s.AddType(stringType).
		AddType(intType).
		AddType(floatType).
		AddType(booleanType).
		AddType(idType)
	s.AddDirective(includeDirective).
		AddDirective(skipDirective)

	for name, def := range astSchema.Types {
		if isIntrospectionName(name) || isBuiltinScalar(name) {
			continue
		}
		t, err := buildDefinition(astSchema, def)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
	}

	for name, dir := range astSchema.Directives {
		if isBuiltinDirective(name) {
			continue
		}
		s.AddDirective(buildDirective(dir))
	}
	return s, nil
}

// BuildFromSDL parses a single SDL string and returns the corresponding Schema.
func BuildFromSDL(sdl string) (*Schema, error) {
	return Build(&ast.Source{Name: "schema.graphql", Input: sdl})
}

func buildDefinition(astSchema *ast.Schema, def *ast.Definition) (*Type, error) {
	switch def.Kind {
	case ast.Object:
		return buildComposite(def, TypeKindObject), nil
	case ast.Interface:
		t := buildComposite(def, TypeKindInterface)
		for _, pt := range astSchema.PossibleTypes[def.Name] {
			t.AddPossibleType(pt.Name)
		}
		return t, nil
	case ast.Union:
		t := NewType(def.Name, TypeKindUnion, def.Description)
		for _, name := range def.Types {
			t.AddPossibleType(name)
		}
		return t, nil
	case ast.Enum:
		t := NewType(def.Name, TypeKindEnum, def.Description)
		for _, v := range def.EnumValues {
			ev := NewEnumValue(v.Name, v.Description)
			if reason, ok := deprecationReason(v.Directives); ok {
				ev.Deprecate(reason)
			}
			t.AddEnumValue(ev)
		}
		return t, nil
	case ast.InputObject:
		t := NewType(def.Name, TypeKindInputObject, def.Description).
			SetOneOf(def.Directives.ForName("oneOf") != nil)
		for _, f := range def.Fields {
			in := NewInputValue(f.Name, f.Description, buildTypeRef(f.Type)).
				SetDefault(astValue(f.DefaultValue))
			if reason, ok := deprecationReason(f.Directives); ok {
				in.Deprecate(reason)
			}
			t.AddInputField(in)
		}
		return t, nil
	case ast.Scalar:
		return NewType(def.Name, TypeKindScalar, def.Description), nil
	}
	return nil, fmt.Errorf("unsupported definition kind %q for type %q", def.Kind, def.Name)
}

func buildComposite(def *ast.Definition, kind TypeKind) *Type {
	t := NewType(def.Name, kind, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, f := range def.Fields {
		if isIntrospectionName(f.Name) {
			continue
		}
		t.AddField(buildField(f))
	}
	return t
}

func buildField(def *ast.FieldDefinition) *Field {
	f := NewField(def.Name, def.Description, buildTypeRef(def.Type))
	if reason, ok := deprecationReason(def.Directives); ok {
		f.Deprecate(reason)
	}
	for _, arg := range def.Arguments {
		f.AddArgument(NewInputValue(arg.Name, arg.Description, buildTypeRef(arg.Type)).
			SetDefault(astValue(arg.DefaultValue)))
	}
	return f
}

func buildDirective(dir *ast.DirectiveDefinition) *Directive {
	d := NewDirective(dir.Name, dir.Description).SetRepeatable(dir.IsRepeatable)
	for _, loc := range dir.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range dir.Arguments {
		d.AddArgument(NewInputValue(arg.Name, arg.Description, buildTypeRef(arg.Type)).
			SetDefault(astValue(arg.DefaultValue)))
	}
	return d
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(buildTypeRef(&ast.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	return ListType(buildTypeRef(t.Elem))
}

// astValue converts a constant AST value into a plain Go value.
func astValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.IntValue:
		iv, _ := strconv.Atoi(v.Raw)
		return iv
	case ast.FloatValue:
		fv, _ := strconv.ParseFloat(v.Raw, 64)
		return fv
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw
	case ast.BooleanValue:
		return v.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.ListValue:
		out := make([]any, len(v.Children))
		for i, c := range v.Children {
			out[i] = astValue(c.Value)
		}
		return out
	case ast.ObjectValue:
		m := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			m[c.Name] = astValue(c.Value)
		}
		return m
	default:
		return nil
	}
}

func deprecationReason(directives ast.DirectiveList) (string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return "", false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return "No longer supported", true
}

func isIntrospectionName(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID":
		return true
	}
	return false
}

func isBuiltinDirective(name string) bool {
	switch name {
	case "include", "skip", "deprecated", "specifiedBy", "defer", "oneOf":
		return true
	}
	return false
}
