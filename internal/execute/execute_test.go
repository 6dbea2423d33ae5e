package execute_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-logr/logr/testr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/foodexpress/internal/execute"
	"github.com/vvakame/foodexpress/internal/gqlfun"
	"github.com/vvakame/foodexpress/internal/log"
)

var testSchema = heredoc.Doc(`
	type Query {
		hello: String!
		shop(id: ID!): Shop
		broken: Shop!
		explode: String
		shops: [Shop!]!
	}

	type Mutation {
		increment(by: Int!): Int!
	}

	type Shop {
		id: ID!
		name: String!
		price: Float!
		openedAt: String
		tags: [String!]!
		rating: Float
		greeting(name: String!): String!
		owner: Owner
	}

	type Owner {
		name: String!
	}
`)

type shop struct {
	ID       string          `json:"id"`
	Name     string
	Price    decimal.Decimal `json:"price"`
	OpenedAt *time.Time      `json:"openedAt"`
	Tags     []string        `json:"tags"`
	Rating   *float64        `json:"rating"`
	Owner    *owner
}

func (s *shop) Greeting(name string) string {
	return "hello " + name + " from " + s.Name
}

type owner struct {
	Name string
}

type fixture struct {
	es      graphql.ExecutableSchema
	counter int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	openedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	shops := map[string]*shop{
		"1": {
			ID:       "1",
			Name:     "Pizza Napoli",
			Price:    decimal.RequireFromString("12.50"),
			OpenedAt: &openedAt,
			Tags:     []string{"pizza", "italien"},
			Owner:    &owner{Name: "Mario"},
		},
	}

	f := &fixture{}
	f.es = execute.NewExecutableSchema(execute.ExecutionArgs{
		Schema: gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: testSchema}),
		Resolvers: execute.Resolvers{
			"Query.hello": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				return "world", nil
			},
			"Query.shop": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				s, ok := shops[args["id"].(string)]
				if !ok {
					return nil, errors.New("shop not found")
				}
				return s, nil
			},
			"Query.broken": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				return nil, nil
			},
			"Query.explode": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				panic("boom")
			},
			"Query.shops": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				return []*shop{shops["1"], nil}, nil
			},
			"Mutation.increment": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				by, err := graphql.UnmarshalInt(args["by"])
				if err != nil {
					return nil, err
				}
				f.counter += by
				return f.counter, nil
			},
		},
	})

	return f
}

func (f *fixture) execute(t *testing.T, query string, variables map[string]interface{}) *graphql.Response {
	t.Helper()

	ctx := log.WithLogger(context.Background(), testr.New(t))
	return gqlfun.Execute(ctx, f.es, query, variables)
}

func TestExecute_Query(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, heredoc.Doc(`
		{
			hello
			shop(id: "1") {
				__typename
				id
				name
				price
				openedAt
				tags
				rating
				greeting(name: "Jean")
				owner { name }
			}
		}
	`), nil)
	require.Empty(t, resp.Errors)

	assert.JSONEq(t, `{
		"hello": "world",
		"shop": {
			"__typename": "Shop",
			"id": "1",
			"name": "Pizza Napoli",
			"price": 12.5,
			"openedAt": "2024-03-01T12:00:00Z",
			"tags": ["pizza", "italien"],
			"rating": null,
			"greeting": "hello Jean from Pizza Napoli",
			"owner": {"name": "Mario"}
		}
	}`, string(resp.Data))
}

func TestExecute_Variables(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `query ($id: ID!) { shop(id: $id) { id } }`, map[string]interface{}{
		"id": "1",
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"shop": {"id": "1"}}`, string(resp.Data))
}

func TestExecute_ResolverError(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ hello shop(id: "404") { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "shop not found", resp.Errors[0].Message)
	assert.Equal(t, ast.Path{ast.PathName("shop")}, resp.Errors[0].Path)
	assert.JSONEq(t, `{"hello": "world", "shop": null}`, string(resp.Data))
}

func TestExecute_NonNullPropagation(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ hello broken { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "must not be null", resp.Errors[0].Message)
	assert.Equal(t, ast.Path{ast.PathName("broken")}, resp.Errors[0].Path)
	assert.Equal(t, "null", string(resp.Data))
}

func TestExecute_NullListItem(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ shops { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, ast.Path{ast.PathName("shops"), ast.PathIndex(1)}, resp.Errors[0].Path)
	assert.Equal(t, "null", string(resp.Data))
}

func TestExecute_Panic(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ hello explode }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.JSONEq(t, `{"hello": "world", "explode": null}`, string(resp.Data))
}

func TestExecute_MutationRunsSerially(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `mutation { a: increment(by: 1) b: increment(by: 2) c: increment(by: 3) }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"a": 1, "b": 3, "c": 6}`, string(resp.Data))
}

func TestExecute_Introspection(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, heredoc.Doc(`
		{
			__schema { queryType { name } mutationType { name } }
			__type(name: "Owner") { name kind fields { name type { kind ofType { name } } } }
		}
	`), nil)
	require.Empty(t, resp.Errors)

	assert.JSONEq(t, `{
		"__schema": {
			"queryType": {"name": "Query"},
			"mutationType": {"name": "Mutation"}
		},
		"__type": {
			"name": "Owner",
			"kind": "OBJECT",
			"fields": [
				{"name": "name", "type": {"kind": "NON_NULL", "ofType": {"name": "String"}}}
			]
		}
	}`, string(resp.Data))
}

func TestExecute_InvalidQuery(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ nope }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "nope")
	assert.Nil(t, resp.Data)
}

func TestResolveProperty(t *testing.T) {
	type restaurant struct {
		DeliveryTimeMinutes int    `json:"deliveryTime"`
		Hidden              string `json:"-"`
		Cuisine             string
	}

	r := &restaurant{DeliveryTimeMinutes: 25, Hidden: "secret", Cuisine: "Italien"}

	v, err := execute.ResolveProperty(r, "deliveryTime", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	v, err = execute.ResolveProperty(r, "cuisine", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Italien", v)

	_, err = execute.ResolveProperty(r, "hidden", nil, nil)
	assert.Error(t, err)

	v, err = execute.ResolveProperty(map[string]interface{}{"name": "Jean"}, "name", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jean", v)

	v, err = execute.ResolveProperty(nil, "name", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	s := &shop{Name: "Sushi Zen"}
	v, err = execute.ResolveProperty(s, "greeting", []string{"name"}, map[string]interface{}{"name": "Marie"})
	require.NoError(t, err)
	assert.Equal(t, "hello Marie from Sushi Zen", v)
}

func TestResponse_JSON(t *testing.T) {
	f := newFixture(t)

	resp := f.execute(t, `{ hello }`, nil)
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {"hello": "world"}}`, string(b))
}
