package introspection

import (
	"context"
	"testing"

	executor "github.com/graphmock/graphmock/internal/executor"
	language "github.com/graphmock/graphmock/internal/language"
	schema "github.com/graphmock/graphmock/internal/schema"
)

func buildSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sdl := `type Query { hello: String }`
	sch, err := schema.BuildFromSDL(sdl)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return sch
}

func TestIntrospectionEnabled(t *testing.T) {
	sch := buildSchema(t)
	wrapper := Wrap(executor.NewStaticRuntime(nil), sch)
	exec := executor.NewExecutor(wrapper.Runtime, wrapper.Schema)
	doc, err := language.ParseQuery("{__schema{queryType{name}}}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	data := res.Data.(map[string]any)
	schData := data["__schema"].(map[string]any)
	qt := schData["queryType"].(map[string]any)
	if qt["name"].(string) != "Query" {
		t.Fatalf("queryType.name = %v", qt["name"])
	}
}

func TestTypeByName(t *testing.T) {
	sch := buildSchema(t)
	wrapper := Wrap(executor.NewStaticRuntime(nil), sch)
	exec := executor.NewExecutor(wrapper.Runtime, wrapper.Schema)
	doc, err := language.ParseQuery(`{__type(name: "Query"){kind name fields{name type{name}}}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	data := res.Data.(map[string]any)
	typeData := data["__type"].(map[string]any)
	if typeData["kind"] != "OBJECT" || typeData["name"] != "Query" {
		t.Fatalf("unexpected __type result: %v", typeData)
	}
	fields := typeData["fields"].([]any)
	if len(fields) != 1 {
		t.Fatalf("expected one field, got %d", len(fields))
	}
	hello := fields[0].(map[string]any)
	if hello["name"] != "hello" {
		t.Fatalf("field name = %v", hello["name"])
	}
}

func TestTypenameField(t *testing.T) {
	sch := buildSchema(t)
	// __typename should work without the introspection wrapper
	exec := executor.NewExecutor(executor.NewStaticRuntime(nil), sch)
	doc, err := language.ParseQuery("{__typename}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	data := res.Data.(map[string]any)
	if data["__typename"] != "Query" {
		t.Fatalf("expected __typename to be Query, got %v", data["__typename"])
	}
}
