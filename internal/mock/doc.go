// Package mock synthesizes placeholder data for a GraphQL schema.
//
// A Runtime built with New implements executor.Runtime: it walks the schema
// once at construction and installs one resolver per object field. Each
// resolver produces a value from the field's declared type shape, honoring
// user overrides registered per type name, default scalar generators, list
// expansion via MockList, and random concrete-type selection for interfaces
// and unions (tagged with __typename).
//
// With PreserveResolvers an upstream Runtime keeps its resolvers: for each
// field the upstream covers, the installed resolver runs the upstream and
// the synthesizer concurrently and merges the outcomes, preferring real
// data and filling gaps with synthesized values.
package mock
