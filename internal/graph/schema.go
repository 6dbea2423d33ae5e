// Package graph serves the food delivery API as a GraphQL schema.
//
// There is no generated code. The SDL is embedded and every field that is not
// a plain property of the model is bound in the resolver map.
package graph

import (
	_ "embed"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/foodexpress/internal/execute"
)

//go:embed schema.graphqls
var schemaSource string

var loadSchema = sync.OnceValue(func() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{
		Name:  "schema.graphqls",
		Input: schemaSource,
	})
})

// Schema returns the parsed SDL. It is shared and must not be modified.
func Schema() *ast.Schema {
	return loadSchema()
}

func NewExecutableSchema(r *Resolver) graphql.ExecutableSchema {
	return execute.NewExecutableSchema(execute.ExecutionArgs{
		Schema:    Schema(),
		Resolvers: r.fieldResolvers(),
	})
}
