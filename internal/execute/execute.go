package execute

import (
	"bytes"
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// NOTE: gqlgen の generated code の代わりに schema と resolver の map から
// graphql.ExecutableSchema の Exec 相当を組み立てるための executor

// FieldResolver resolves one field of source. args are already coerced by the operation's variables.
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// Resolvers maps "Type.field" to its resolver. Fields without an entry use DefaultFieldResolver.
type Resolvers map[string]FieldResolver

func (r Resolvers) lookup(typeName, fieldName string) FieldResolver {
	if resolver, ok := r[typeName+"."+fieldName]; ok {
		return resolver
	}
	return DefaultFieldResolver
}

type ExecutionArgs struct {
	Schema    *ast.Schema
	Resolvers Resolvers
	RootValue interface{} // optional
}

type executionContext struct {
	schema    *ast.Schema
	resolvers Resolvers
	oc        *graphql.OperationContext
}

// Execute runs the operation held by ctx's OperationContext.
// Field errors are reported through graphql.AddError, so the response only carries data.
func Execute(ctx context.Context, args *ExecutionArgs) *graphql.Response {
	if !graphql.HasOperationContext(ctx) {
		panic("ctx doesn't have OperationContext")
	}

	exeContext := &executionContext{
		schema:    args.Schema,
		resolvers: args.Resolvers,
		oc:        graphql.GetOperationContext(ctx),
	}

	data, gErr := executeOperation(ctx, exeContext, exeContext.oc.Operation, args.RootValue)
	if gErr != nil {
		graphql.AddError(ctx, gErr)
		return &graphql.Response{}
	}

	var buf bytes.Buffer
	data.MarshalGQL(&buf)

	return &graphql.Response{
		Data: buf.Bytes(),
	}
}

func executeOperation(ctx context.Context, exeContext *executionContext, operation *ast.OperationDefinition, rootValue interface{}) (graphql.Marshaler, *gqlerror.Error) {
	if operation == nil {
		return nil, gqlerror.Errorf("must provide an operation")
	}

	var typ *ast.Definition
	switch operation.Operation {
	case ast.Query:
		typ = exeContext.schema.Query
		if typ == nil {
			return nil, gqlerror.ErrorPosf(operation.Position, "schema does not define the required query root type")
		}
	case ast.Mutation:
		typ = exeContext.schema.Mutation
		if typ == nil {
			return nil, gqlerror.ErrorPosf(operation.Position, "schema is not configured for mutations")
		}
	default:
		return nil, gqlerror.ErrorPosf(operation.Position, "%s operations are not supported", operation.Operation)
	}

	fields := graphql.CollectFields(exeContext.oc, operation.SelectionSet, []string{typ.Name})

	// Errors from sub-fields of a NonNull type may propagate to the top level,
	// in which case the whole data becomes null.
	if operation.Operation == ast.Mutation {
		return executeFields(ctx, exeContext, typ, rootValue, fields, true), nil
	}
	return executeFields(ctx, exeContext, typ, rootValue, fields, false), nil
}

// executeFields resolves fields of sourceValue. Mutation root fields must run serially, everything else runs concurrently.
func executeFields(ctx context.Context, exeContext *executionContext, parentType *ast.Definition, sourceValue interface{}, fields []graphql.CollectedField, serially bool) graphql.Marshaler {
	out := graphql.NewFieldSet(fields)

	if serially {
		for i, field := range fields {
			out.Values[i] = executeField(ctx, exeContext, parentType, sourceValue, field)
		}
	} else {
		var wg sync.WaitGroup
		for i, field := range fields {
			wg.Add(1)
			go func(i int, field graphql.CollectedField) {
				defer wg.Done()
				out.Values[i] = executeField(ctx, exeContext, parentType, sourceValue, field)
			}(i, field)
		}
		wg.Wait()
	}

	for i, field := range fields {
		if field.Definition != nil && field.Definition.Type.NonNull && out.Values[i] == graphql.Null {
			return graphql.Null
		}
	}

	return out
}

// executeField calls the field's resolver and completes its result.
func executeField(ctx context.Context, exeContext *executionContext, parentType *ast.Definition, source interface{}, field graphql.CollectedField) graphql.Marshaler {
	if field.Name == "__typename" {
		return graphql.MarshalString(parentType.Name)
	}

	fc := &graphql.FieldContext{
		Object: parentType.Name,
		Field:  field,
		Args:   field.ArgumentMap(exeContext.oc.Variables),
	}
	ctx = graphql.WithFieldContext(ctx, fc)

	var result interface{}
	switch field.Name {
	case "__schema":
		if exeContext.oc.DisableIntrospection {
			graphql.AddErrorf(ctx, "introspection disabled")
			return graphql.Null
		}
		result = introspection.WrapSchema(exeContext.schema)
	case "__type":
		if exeContext.oc.DisableIntrospection {
			graphql.AddErrorf(ctx, "introspection disabled")
			return graphql.Null
		}
		name, _ := fc.Args["name"].(string)
		def := exeContext.schema.Types[name]
		if def == nil {
			return graphql.Null
		}
		result = introspection.WrapTypeFromDef(exeContext.schema, def)
	default:
		fc.IsResolver = true
		resolver := exeContext.resolvers.lookup(parentType.Name, field.Name)

		var err error
		result, err = resolve(ctx, exeContext, resolver, source, fc.Args)
		if err != nil {
			graphql.AddError(ctx, err)
			return graphql.Null
		}
	}
	fc.Result = result

	return completeValue(ctx, exeContext, field.Definition.Type, field, result)
}

func resolve(ctx context.Context, exeContext *executionContext, resolver FieldResolver, source interface{}, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = exeContext.oc.Recover(ctx, r)
			result = nil
		}
	}()

	next := func(ctx context.Context) (interface{}, error) {
		return resolver(ctx, source, args)
	}
	if exeContext.oc.ResolverMiddleware == nil {
		return next(ctx)
	}
	return exeContext.oc.ResolverMiddleware(ctx, next)
}

// completeValue serializes result according to returnType.
//
// A nil result for a Non-Null type is reported as a field error where it
// happens. Nulls coming back from sub-fields are already reported, and the
// parent decides whether they propagate further up.
func completeValue(ctx context.Context, exeContext *executionContext, returnType *ast.Type, fieldNode graphql.CollectedField, result interface{}) graphql.Marshaler {
	if returnType.NonNull {
		if isNil(result) {
			fc := graphql.GetFieldContext(ctx)
			if !graphql.HasFieldError(ctx, fc) {
				graphql.AddErrorf(ctx, "must not be null")
			}
			return graphql.Null
		}
		copied := *returnType
		copied.NonNull = false
		return completeValue(ctx, exeContext, &copied, fieldNode, result)
	}

	rv := reflect.ValueOf(result)
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return graphql.Null
		}
		if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
			// pointer receiver methods must stay reachable
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return graphql.Null
	}

	if returnType.Elem != nil {
		return completeListValue(ctx, exeContext, returnType, fieldNode, rv)
	}

	def := exeContext.schema.Types[returnType.NamedType]
	if def == nil {
		graphql.AddErrorf(ctx, "unknown type %s", returnType.NamedType)
		return graphql.Null
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		return completeLeafValue(ctx, def, rv)
	case ast.Object:
		return completeObjectValue(ctx, exeContext, def, fieldNode, rv.Interface())
	default:
		graphql.AddErrorf(ctx, "cannot complete value of unexpected output type: %s", returnType.String())
		return graphql.Null
	}
}

// completeListValue completes every item with the inner type. A null item of a Non-Null item type nulls the whole list.
func completeListValue(ctx context.Context, exeContext *executionContext, returnType *ast.Type, fieldNode graphql.CollectedField, rv reflect.Value) graphql.Marshaler {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		graphql.AddErrorf(ctx, "expected slice, but did not find one for field %s", fieldNode.Name)
		return graphql.Null
	}

	itemType := returnType.Elem
	ret := make(graphql.Array, rv.Len())

	var wg sync.WaitGroup
	for index := 0; index < rv.Len(); index++ {
		itemRV := rv.Index(index)
		if itemRV.Kind() == reflect.Struct && itemRV.CanAddr() {
			itemRV = itemRV.Addr()
		}
		item := itemRV.Interface()

		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			fc := &graphql.FieldContext{
				Index:  &index,
				Result: item,
			}
			ctx := graphql.WithFieldContext(ctx, fc)
			ret[index] = completeValue(ctx, exeContext, itemType, fieldNode, item)
		}(index)
	}
	wg.Wait()

	if itemType.NonNull {
		for _, item := range ret {
			if item == graphql.Null {
				return graphql.Null
			}
		}
	}

	return ret
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

type inexactFloat64 interface {
	InexactFloat64() float64
}

// completeLeafValue serializes a Scalar or Enum.
func completeLeafValue(ctx context.Context, def *ast.Definition, rv reflect.Value) graphql.Marshaler {
	if m, ok := rv.Interface().(graphql.Marshaler); ok {
		return m
	}
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	switch v := rv.Interface().(type) {
	case time.Time:
		return graphql.MarshalTime(v)
	case inexactFloat64:
		return graphql.MarshalFloat(v.InexactFloat64())
	}

	switch rv.Kind() {
	case reflect.Bool:
		return graphql.MarshalBoolean(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def.Name == "Float" {
			return graphql.MarshalFloat(float64(rv.Int()))
		}
		return graphql.MarshalInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def.Name == "Float" {
			return graphql.MarshalFloat(float64(rv.Uint()))
		}
		return graphql.MarshalInt64(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return graphql.MarshalFloat(rv.Float())
	case reflect.String:
		if def.Name == "ID" {
			return graphql.MarshalID(rv.String())
		}
		return graphql.MarshalString(rv.String())
	}

	graphql.AddErrorf(ctx, "unsupported leaf type %s for %s", rv.Type(), def.Name)
	return graphql.Null
}

func completeObjectValue(ctx context.Context, exeContext *executionContext, def *ast.Definition, fieldNode graphql.CollectedField, result interface{}) graphql.Marshaler {
	subFieldNodes := graphql.CollectFields(exeContext.oc, fieldNode.SelectionSet, []string{def.Name})
	return executeFields(ctx, exeContext, def, result, subFieldNodes, false)
}
