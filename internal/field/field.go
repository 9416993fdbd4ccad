// Package field is for analysing Go struct fields for use as GraphQL query fields (resolvers)
package field

// field.go generates GraphQL resolver info from a Go struct field

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"unicode"
)

// TagKey is the struct tag key holding GraphQL metadata, eg `gql:"team(id)"`
const TagKey = "gql"

// Info is returned by Get() with info extracted from a struct field to be used as a GraphQL query resolver.
// The info is obtained from the field's name, type and "gql" (metadata) tag.
type Info struct {
	Name        string       // field name for use in GraphQL queries - from metadata (tag) or Go struct field name
	GQLTypeName string       // GraphQL type name if given in the tag (usually empty as it's derived from the Go type)
	ResultType  reflect.Type // Go type of the resolved value = field type or func return type, with pointers removed

	// The following are for function resolvers only
	Args            []string // name(s) of args to resolver function obtained from metadata
	ArgTypes        []string // corresp. GraphQL type names if given in the tag
	ArgDefaults     []string // corresp. default value(s) (as strings) where an empty string means there is no default
	ArgDescriptions []string // corresp. description of the argument
	HasContext      bool     // 1st function parameter is a context.Context (not a query argument)
	HasError        bool     // has 2 return values the 2nd of which is a Go error

	Embedded    bool   // embedded struct whose fields are promoted into the parent GraphQL type
	Nullable    bool   // pointer fields or those with the "nullable" option are allowed to be null
	Description string // taken from the tag string after any # character (outside brackets)
}

// contextType is used to check if a resolver function takes a context.Context (1st) parameter
var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// errorType is used to check if a resolver function returns a (2nd) error return value
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Get checks if a field in a Go struct is exported and, if so, returns the GraphQL field info. incl. the
// GQL field name, derived from the Go field name (with 1st char lower-cased) or taken from the tag (metadata).
// It also returns other stuff like whether the result is nullable and GraphQL arguments (and default
// values) if the resolver is a function.
// An error may be returned e.g. for malformed metadata, or a resolver function returning multiple values.
// If the field is not exported or the tag is a dash (-) then nil is returned, but no error.
func Get(f *reflect.StructField) (fieldInfo *Info, err error) {
	if f.PkgPath != "" {
		return // unexported field
	}

	if fieldInfo, err = GetInfoFromTag(f.Tag.Get(TagKey)); err != nil {
		return nil, fmt.Errorf("%w getting tag info from field %q", err, f.Name)
	}
	if fieldInfo == nil {
		return // explicitly omitted field
	}
	if f.Anonymous {
		// Like Go, the fields of an embedded struct are "promoted" to the containing struct
		if f.Type.Kind() != reflect.Struct {
			return nil, fmt.Errorf("embedded field %q must be a struct (not %v)", f.Name, f.Type.Kind())
		}
		fieldInfo.Embedded = true
		fieldInfo.ResultType = f.Type
		return
	}

	if fieldInfo.Name == "" {
		fieldInfo.Name = lowerFirst(f.Name)
	}

	t := f.Type
	for t.Kind() == reflect.Ptr {
		fieldInfo.Nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Func {
		if t, err = fieldInfo.checkFunc(f.Name, t); err != nil {
			return nil, err
		}
		for t.Kind() == reflect.Ptr {
			fieldInfo.Nullable = true // a func returning a pointer may return nil
			t = t.Elem()
		}
	} else if fieldInfo.Args != nil {
		return nil, errors.New("arguments cannot be supplied for non-function resolver " + f.Name)
	}
	fieldInfo.ResultType = t
	return
}

// checkFunc validates the parameters and return values of a resolver function and returns its result type
func (fieldInfo *Info) checkFunc(name string, t reflect.Type) (reflect.Type, error) {
	firstIndex := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		// 1st param is a context so don't add it to the list of query arguments
		fieldInfo.HasContext = true
		firstIndex++
	}
	if t.NumIn()-firstIndex != len(fieldInfo.Args) {
		if len(fieldInfo.Args) == 0 {
			return nil, fmt.Errorf("no args found in tag for %q but %d required", name, t.NumIn()-firstIndex)
		}
		return nil, fmt.Errorf("function %q argument count should be %d but is %d",
			name, len(fieldInfo.Args), t.NumIn()-firstIndex)
	}

	switch t.NumOut() {
	case 0:
		return nil, errors.New("resolver " + name + " must return a value (or 2)")
	case 1:
		// nothing here
	case 2:
		if t.Out(1) != errorType {
			return nil, errors.New("resolver " + name + " 2nd return must be error type")
		}
		fieldInfo.HasError = true
	default:
		return nil, errors.New("resolver " + name + " returns too many values")
	}
	return t.Out(0), nil
}

// lowerFirst makes a GraphQL name from a Go field name by lower-casing any leading capitals
// (apart from the start of the next word), eg Count => count, ID => id, URLPath => urlPath
func lowerFirst(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) {
		n-- // last capital starts the next word
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// BaseType strips pointers and list (slice/array) types to get to the underlying element type,
// eg for a []*Team the type Team is returned.
func BaseType(t reflect.Type) reflect.Type {
	for k := t.Kind(); k == reflect.Ptr || k == reflect.Slice || k == reflect.Array; k = t.Kind() {
		t = t.Elem()
	}
	return t
}
