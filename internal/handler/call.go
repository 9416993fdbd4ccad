package handler

// call.go uses reflection to call a Go function that implements a GraphQL resolver

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/teamql/teamql/internal/field"
	"github.com/vektah/gqlparser/v2/ast"
)

// fromFunc calls a Go function (resolver) and returns the value it returns
// Parameters:
//
//	ctx - is a context.Context that may be cancelled at any time
//	astField - is the GraphQL query object field
//	v - the reflection "value" of the Go function
//	fieldInfo - contains the parameter names obtained from the Go field metadata
func (op *gqlOperation) fromFunc(ctx context.Context, astField *ast.Field, v reflect.Value, fieldInfo *field.Info,
) (reflect.Value, error) {
	t := v.Type()
	args := make([]reflect.Value, 0, t.NumIn()) // list of arguments for the function call
	baseArg := 0                                // index of 1st query resolver argument (== 1 if function call needs ctx)

	if fieldInfo.HasContext {
		args = append(args, reflect.ValueOf(ctx))
		baseArg++
	}

	// argValues stores the value of arguments the same way the JSON decoder does. Eg: a GraphQL "object" (to be
	// decoded into a Go struct) is stored as a map[string]interface{} and a GraphQL list is stored in a []interface{}.
	// Arguments not supplied in the query get the default from the schema (if any).
	argValues := astField.ArgumentMap(op.variables)
	for n, name := range fieldInfo.Args {
		param := t.In(baseArg + n)
		rawValue, ok := argValues[name]
		if !ok {
			args = append(args, reflect.Zero(param)) // not supplied and no default (argument must be nullable)
			continue
		}
		arg, err := getValue(param, name, rawValue)
		if err != nil {
			return reflect.Value{}, err
		}
		args = append(args, arg)
	}

	out := v.Call(args) // === the actual function call (using reflection) ===

	// Extract the error return value (if any)
	if fieldInfo.HasError {
		if iface := out[1].Interface(); iface != nil {
			return reflect.Value{}, iface.(error) // return error from the call
		}
	}
	return out[0], nil
}

// getValue returns a value (eg for a resolver argument) given an interface{} and an expected Go type
// Parameters:
//
//	t = expected type
//	name = corresponding name of the argument
//	value = what needs to be returned as a value of type t
func getValue(t reflect.Type, name string, value interface{}) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil // null (pointer will be nil)
	}
	if t.Kind() == reflect.Ptr {
		elem, err := getValue(t.Elem(), name, value)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	// Try to convert the type of the variable to the expected type
	switch v := value.(type) {
	case map[string]interface{}:
		// GraphQL "input" values are decoded as a map[string]interface{} which we use to make
		// a Go struct where the string is a field name and the value in the interface is the field value.
		return getStruct(t, name, v)
	case []interface{}:
		return getList(t, name, v)
	case string:
		return getString(t, v)
	case bool:
		if t.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("argument %q: cannot use a Boolean for %v", name, t)
		}
		return reflect.ValueOf(v).Convert(t), nil
	case int:
		return getInt(t, int64(v))
	case int32:
		return getInt(t, int64(v))
	case int64:
		return getInt(t, v)
	case float64:
		return getFloat(t, v)
	}
	return reflect.Value{}, fmt.Errorf("argument %q is of unsupported type %T", name, value)
}

// getStruct converts a map (eg from the JSON decoder) to a struct including any nested structs, and slices
// Parameters
//
//	t = type of the struct that we need to fill in from the GraphQL object
//	name = name of the argument
//	m = map key is field names of the object, map value is field values
func getStruct(t reflect.Type, name string, m map[string]interface{}) (reflect.Value, error) {
	if t.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("argument %q is not a GraphQL INPUT type", name)
	}

	// Create an instance of the struct and fill in the exported fields using m
	r := reflect.New(t).Elem()
	for idx := 0; idx < t.NumField(); idx++ {
		f := t.Field(idx)
		fieldInfo, err := field.Get(&f)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w getting field %q", err, f.Name)
		}
		if fieldInfo == nil {
			continue // ignore unexported field
		}
		value, ok := m[fieldInfo.Name]
		if !ok {
			continue // leave as zero value
		}
		v, err := getValue(f.Type, fieldInfo.Name, value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("converting field %q of %q: %w", fieldInfo.Name, name, err)
		}
		r.Field(idx).Set(v)
	}
	return r, nil
}

// getList converts a list of values from a GraphQL variable or literal into a Go slice or array
func getList(t reflect.Type, name string, list []interface{}) (reflect.Value, error) {
	var r reflect.Value
	switch t.Kind() {
	case reflect.Slice:
		r = reflect.MakeSlice(t, len(list), len(list))
	case reflect.Array:
		if len(list) > t.Len() {
			return reflect.Value{}, fmt.Errorf("argument %q has too many elements (%d) for array of %d", name, len(list), t.Len())
		}
		r = reflect.New(t).Elem()
	default:
		return reflect.Value{}, fmt.Errorf("argument %q is not a list", name)
	}

	for i, value := range list {
		elemName := name + "[" + strconv.Itoa(i) + "]"
		v, err := getValue(t.Elem(), elemName, value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("getting list value %s: %w", elemName, err)
		}
		r.Index(i).Set(v)
	}
	return r, nil
}

// getInt takes an integer and returns the value as the desired Go type (incl. ints, floats & string types).
// Depending on the types and values the result might not be specified.  For example an int may overflow if converted
// to a smaller type but GraphQL Int values are only 32 bits anyway.
func getInt(t reflect.Type, i int64) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.String:
		// Note that we can't use Convert as that makes a string from a rune
		return reflect.ValueOf(strconv.FormatInt(i, 10)).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use an integer for %v", t)
}

// getFloat takes a float and returns the value as the desired Go type (incl. all int, float types + string).
func getFloat(t reflect.Type, f float64) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(strconv.FormatFloat(f, 'g', -1, 64)).Convert(t), nil
	}
	return getInt(t, int64(f))
}

// getString converts a string into the expected type of a resolver function's parameter, eg an ID may be
// supplied as a string but the resolver takes an int.
func getString(t reflect.Type, s string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w converting %q to an integer", err, s)
		}
		return getInt(t, i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w converting %q to a number", err, s)
		}
		return getFloat(t, f)
	}
	return reflect.Value{}, fmt.Errorf("cannot use a string for %v", t)
}
