package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSDL = `
type Query {
  user(id: ID!): User
  users(limit: Int = 10): [User!]!
  search(q: String!): [SearchResult]
}

type Mutation {
  rename(id: ID!, name: String!): User
}

"""
A registered account.
"""
type User implements Node {
  id: ID!
  name: String!
  email: String @deprecated(reason: "use name")
  role: Role
}

type Team implements Node {
  id: ID!
  members: [User!]!
}

interface Node {
  id: ID!
}

enum Role {
  ADMIN
  MEMBER
}

union SearchResult = User | Team

input UserFilter {
  role: Role = MEMBER
  active: Boolean
}
`

func TestBuildFromSDL(t *testing.T) {
	sch, err := BuildFromSDL(testSDL)
	require.NoError(t, err)

	require.Equal(t, "Query", sch.QueryType)
	require.Equal(t, "Mutation", sch.MutationType)
	require.Empty(t, sch.SubscriptionType)

	user := sch.Types["User"]
	require.NotNil(t, user)
	require.Equal(t, TypeKindObject, user.Kind)
	require.Equal(t, "A registered account.", user.Description)
	require.Equal(t, []string{"Node"}, user.Interfaces)

	email := user.Fields.Get("email")
	require.NotNil(t, email)
	require.True(t, email.IsDeprecated)
	require.Equal(t, "use name", email.DeprecationReason)

	node := sch.Types["Node"]
	require.NotNil(t, node)
	require.Equal(t, TypeKindInterface, node.Kind)
	require.ElementsMatch(t, []string{"User", "Team"}, node.PossibleTypes)

	result := sch.Types["SearchResult"]
	require.NotNil(t, result)
	require.Equal(t, TypeKindUnion, result.Kind)
	require.Equal(t, []string{"User", "Team"}, result.PossibleTypes)

	role := sch.Types["Role"]
	require.Len(t, role.EnumValues, 2)

	filter := sch.Types["UserFilter"]
	require.Equal(t, TypeKindInputObject, filter.Kind)
	require.Equal(t, "MEMBER", filter.InputFields[0].DefaultValue)

	// Builtin scalars are always registered.
	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		require.NotNil(t, sch.Types[name], name)
		require.Equal(t, TypeKindScalar, sch.Types[name].Kind)
	}
}

func TestBuildFromSDLInvalid(t *testing.T) {
	_, err := BuildFromSDL(`type Query { user: Missing }`)
	require.Error(t, err)
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(NamedType("User"))))
	require.True(t, ref.IsNonNull())
	require.True(t, ref.IsList())
	require.Equal(t, "User", ref.GetNamedType())
	require.Equal(t, "[User!]!", ref.String())
	require.Equal(t, "User", ref.Elem().GetNamedType())
	require.True(t, ref.Elem().IsNonNull())
}

func TestPossibleTypesLookup(t *testing.T) {
	sch, err := BuildFromSDL(testSDL)
	require.NoError(t, err)

	names := func(types []*Type) []string {
		out := make([]string, len(types))
		for i, typ := range types {
			out[i] = typ.Name
		}
		return out
	}

	require.ElementsMatch(t, []string{"User", "Team"}, names(sch.PossibleTypes("Node")))
	require.Equal(t, []string{"User"}, names(sch.PossibleTypes("User")))
	require.Nil(t, sch.PossibleTypes("Role"))
	require.Nil(t, sch.PossibleTypes("Nope"))
}
