// Package executor implements GraphQL query execution over a schema and a
// Runtime.
//
// Execution is depth-first and synchronous: fields are collected per the
// GraphQL spec (aliases, fragments, @skip/@include), resolved one at a time
// through Runtime.Resolve, and completed recursively. Non-Null violations
// propagate a null to the nearest nullable ancestor and record a located
// error; sibling fields are unaffected.
//
// The Runtime supplies all host behavior: field resolution, abstract type
// discrimination (ResolveType) and leaf serialization. StaticRuntime is a
// ready-made Runtime backed by a "Type.field" resolver map which falls back
// to reading map sources by field name.
package executor
