package execute

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/99designs/gqlgen/graphql"
)

var _ FieldResolver = DefaultFieldResolver

type fieldKey struct {
	typ  reflect.Type
	name string
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// struct field index by GraphQL field name, nil when the struct has no such field.
var fieldIndexCache sync.Map

// DefaultFieldResolver reads the property of source named after the field.
//
// Maps are looked up by key. Structs are matched by json tag first, then by
// exported field name, then by exported method. Method arguments are taken
// from args in the order the schema declares them.
func DefaultFieldResolver(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil {
		panic("ctx doesn't have FieldContext")
	}

	var argNames []string
	if fc.Field.Definition != nil {
		for _, arg := range fc.Field.Definition.Arguments {
			argNames = append(argNames, arg.Name)
		}
	}

	return ResolveProperty(source, fc.Field.Name, argNames, args)
}

// ResolveProperty is DefaultFieldResolver without the field context.
func ResolveProperty(source interface{}, name string, argNames []string, args map[string]interface{}) (interface{}, error) {
	if source == nil {
		return nil, nil
	}
	if m, ok := source.(map[string]interface{}); ok {
		return m[name], nil
	}

	rv := reflect.ValueOf(source)

	sv := rv
	for sv.Kind() == reflect.Ptr || sv.Kind() == reflect.Interface {
		if sv.IsNil() {
			return nil, nil
		}
		sv = sv.Elem()
	}
	if sv.Kind() == reflect.Struct {
		if index := structFieldIndex(sv.Type(), name); index != nil {
			return sv.FieldByIndex(index).Interface(), nil
		}
	}

	method := rv.MethodByName(exportedName(name))
	if !method.IsValid() && sv.CanAddr() {
		method = sv.Addr().MethodByName(exportedName(name))
	}
	if method.IsValid() {
		return callMethod(method, name, argNames, args)
	}

	return nil, fmt.Errorf("%s has no property %s", rv.Type(), name)
}

func structFieldIndex(typ reflect.Type, name string) []int {
	key := fieldKey{typ: typ, name: name}
	if v, ok := fieldIndexCache.Load(key); ok {
		return v.([]int)
	}

	var index []int
	var byName []int
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("json"), ",")[0]
		if tag == "-" {
			continue
		}
		if tag == name {
			index = f.Index
			break
		}
		if tag == "" && byName == nil && f.Name == exportedName(name) {
			byName = f.Index
		}
	}
	if index == nil {
		index = byName
	}

	fieldIndexCache.Store(key, index)
	return index
}

func callMethod(method reflect.Value, name string, argNames []string, args map[string]interface{}) (interface{}, error) {
	mt := method.Type()
	if mt.NumIn() > len(argNames) {
		return nil, fmt.Errorf("method for %s takes %d arguments, the field declares %d", name, mt.NumIn(), len(argNames))
	}

	in := make([]reflect.Value, mt.NumIn())
	for i := range in {
		paramType := mt.In(i)
		v := reflect.ValueOf(args[argNames[i]])
		switch {
		case !v.IsValid():
			in[i] = reflect.Zero(paramType)
		case v.Type().ConvertibleTo(paramType):
			in[i] = v.Convert(paramType)
		default:
			return nil, fmt.Errorf("argument %s of %s: cannot use %s as %s", argNames[i], name, v.Type(), paramType)
		}
	}

	out := method.Call(in)
	switch {
	case len(out) == 1:
		return out[0].Interface(), nil
	case len(out) == 2 && mt.Out(1).Implements(errorType):
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("method for %s must return a value and an optional error", name)
	}
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
