// Package schema can be used to generate a GraphQL schema (as a string) from
// the Go structure representing the GraphQL query entry point.  This goes
// hand-in-hand with the "handler" which uses an instance of that same structure
// to fulfill the queries.
package schema

// schema.go contains the exported functions - Build and MustBuild

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const (
	openString  = " {\n"
	closeString = "}\n"

	gqlObjectType = "type"
	gqlInputType  = "input"
)

// MustBuild is the same as Build but panics on error
func MustBuild(query interface{}) string {
	s, err := Build(query)
	if err != nil {
		panic(err)
	}
	return s
}

// Build generates a string containing a GraphQL schema from a Go struct.
// It analyses the Go "query" struct (or pointer to struct) using its exported fields
// as queries, adding any nested structs as GraphQL object types.
func Build(query interface{}) (string, error) {
	if query == nil {
		return "", errors.New("no query struct supplied to schema.Build")
	}
	t := reflect.TypeOf(query)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", fmt.Errorf("parameter to schema.Build must be a struct (not %v)", t.Kind())
	}
	typeName := t.Name()
	if typeName == "" {
		typeName = "Query" // use default name for anon struct
	}

	schemaTypes := newSchemaTypes()
	if err := schemaTypes.add(typeName, t, gqlObjectType); err != nil {
		return "", fmt.Errorf("%w adding %q building schema", err, typeName)
	}

	// Work out space needed for the types and get a list of names to sort
	names := make([]string, 0, len(schemaTypes.declaration))
	required := len("schema") + len(openString) + len(" query: ") + len(typeName) + 1 + len(closeString)
	for name, decl := range schemaTypes.declaration {
		names = append(names, name)
		required += len(decl)
	}
	sort.Strings(names) // we need to always output the types in the same order (eg for consistency in tests)

	builder := &strings.Builder{}
	builder.Grow(required)
	builder.WriteString("schema")
	builder.WriteString(openString)
	builder.WriteString(" query: ")
	builder.WriteString(typeName)
	builder.WriteRune('\n')
	builder.WriteString(closeString)
	for _, name := range names {
		builder.WriteString(schemaTypes.declaration[name])
	}
	return builder.String(), nil
}
