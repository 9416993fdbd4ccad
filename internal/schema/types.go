package schema

// types.go works out GraphQL type names from Go types

import (
	"fmt"
	"reflect"
	"strings"
)

// getTypeName returns the GraphQL type name corresponding to a Go type, including list brackets and
// non-nullable (!) markers for list elements, eg []int => "[Int!]", []*Team => "[Team]".
// Non-nullability of t itself is not included as it depends on the field (eg "nullable" option).
// Parameters:
//
//	t = the Go type to get the name for
//	anonName = name to use if t is (or contains) an anonymous struct
func getTypeName(t reflect.Type, anonName string) (string, error) {
	switch t.Kind() {
	case reflect.Ptr:
		return getTypeName(t.Elem(), anonName)
	case reflect.Slice, reflect.Array:
		elem := t.Elem()
		name, err := getTypeName(elem, anonName)
		if err != nil {
			return "", fmt.Errorf("%w getting list element type", err)
		}
		if elem.Kind() != reflect.Ptr {
			name += "!" // list elements can't be null unless they are pointers
		}
		return "[" + name + "]", nil
	case reflect.Bool:
		return "Boolean", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Int", nil
	case reflect.Float32, reflect.Float64:
		return "Float", nil
	case reflect.String:
		return "String", nil
	case reflect.Struct:
		if t.Name() == "" {
			return anonName, nil
		}
		return t.Name(), nil
	}
	return "", fmt.Errorf("type %v (kind %v) cannot be used in GraphQL", t, t.Kind())
}

// validateTypeName checks that a GraphQL type name given in metadata is compatible with the Go type.
// Scalar names are checked against the kind of the Go type.  Any other (valid) name is accepted
// for a struct as it is just used to override the GraphQL name of the object type.
func validateTypeName(typeName string, t reflect.Type) error {
	typeName = strings.TrimSuffix(typeName, "!")
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	// if it's a list get the element type
	if len(typeName) > 2 && typeName[0] == '[' && typeName[len(typeName)-1] == ']' {
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return fmt.Errorf("a list type (%s) must have a slice or array resolver (not %v)", typeName, t.Kind())
		}
		return validateTypeName(typeName[1:len(typeName)-1], t.Elem())
	}

	k := t.Kind()
	switch typeName {
	case "Boolean":
		if k != reflect.Bool {
			return fmt.Errorf("a Boolean GraphQL field must have a bool resolver (not %v)", k)
		}
		return nil
	case "Int":
		if k < reflect.Int || k > reflect.Uint64 {
			return fmt.Errorf("an Int GraphQL field must have an integer resolver (not %v)", k)
		}
		return nil
	case "Float":
		if k != reflect.Float32 && k != reflect.Float64 {
			return fmt.Errorf("a Float GraphQL field must have a floating point resolver (not %v)", k)
		}
		return nil
	case "String":
		if k != reflect.String {
			return fmt.Errorf("a String GraphQL field must have a string resolver (not %v)", k)
		}
		return nil
	case "ID":
		if k != reflect.String && (k < reflect.Int || k > reflect.Uint64) {
			return fmt.Errorf("an ID GraphQL field must have a string or integer resolver (not %v)", k)
		}
		return nil
	}

	if !validGraphQLName(typeName) {
		return fmt.Errorf("%q is not a valid type name", typeName)
	}
	if k != reflect.Struct {
		return fmt.Errorf("type %q must be a struct (not %v)", typeName, k)
	}
	return nil
}
