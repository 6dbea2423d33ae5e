package execute

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

type executableSchema struct {
	args ExecutionArgs
}

// NewExecutableSchema adapts args to graphql.ExecutableSchema so it can be served by gqlgen's handler.
func NewExecutableSchema(args ExecutionArgs) graphql.ExecutableSchema {
	return &executableSchema{args: args}
}

func (es *executableSchema) Schema() *ast.Schema {
	return es.args.Schema
}

func (es *executableSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (es *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		return Execute(ctx, &es.args)
	}
}
