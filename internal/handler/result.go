package handler

// result.go is used to generate the query output

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/dolmen-go/jsonmap"
	"github.com/teamql/teamql/internal/field"
	"github.com/vektah/gqlparser/v2/ast"
)

type (
	// gqlOperation controls an operation (query) of a GraphQL request
	gqlOperation struct {
		*Handler // required for resolver lookups and options

		variables map[string]interface{} // variables valid for this op (extracted from the request)
	}

	// gqlValue contains the result of a query or queries, or an error, plus the name
	gqlValue struct {
		name  string      // name/alias of the entry/resolver
		value interface{} // scalar, nested result (jsonmap.Ordered), list ([]interface{})
		err   error       // non-nil if something went wrong whence the contents of value should be ignored
	}
)

// GetSelections resolves the selections in a query by finding and evaluating the corresponding resolver(s)
// Returns a jsonmap.Ordered (a map of values and a slice that remembers the order they were added) that contains an
// entry for each selection, where the map "key" is the name (or alias) of the entry and the value is:
//
//	a) scalar value (stored in an interface{})
//	b) a nested jsonmap.Ordered if the resolver is a nested struct
//	c) a slice (ie []interface{}) if the resolver is a slice or array.
//
// Parameters:
//
//	ctx = a Go context that could expire at any time
//	set = list of selections from a GraphQL query to be resolved
//	data = Go structs with the resolvers (the query struct and introspection data at the root, else just one)
//	path = location of the selection set in the result (used in error messages)
func (op *gqlOperation) GetSelections(ctx context.Context, set ast.SelectionSet, data []reflect.Value, path ast.Path,
) (jsonmap.Ordered, error) {
	fields := op.collectFields(set, nil, make(map[string]int))
	resultChans := make([]<-chan gqlValue, 0, len(fields))
	for _, astField := range fields {
		resultChans = append(resultChans, op.findField(ctx, astField, data, path))
	}

	// Now extract the values (will block until all channels have closed)
	r := jsonmap.Ordered{
		Data:  make(map[string]interface{}, len(fields)),
		Order: make([]string, 0, len(fields)),
	}
	for _, ch := range resultChans {
	inner:
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					break inner
				}
				if v.err != nil {
					return jsonmap.Ordered{}, v.err
				}
				r.Order = append(r.Order, v.name)
				r.Data[v.name] = v.value
			case <-ctx.Done():
				return jsonmap.Ordered{}, toGQLError(ctx.Err(), path)
			}
		}
	}
	return r, nil
}

// collectFields flattens a selection set (including fragments) into one field per response key, in the order
// the keys first appear.  Fields skipped by a directive are left out.  When a key is repeated the sub-selections
// of all the fields are combined so the resolver is only called once.
// Parameters:
//
//	set = selections to add
//	fields = fields collected so far
//	index = position in fields of each response key (name or alias)
func (op *gqlOperation) collectFields(set ast.SelectionSet, fields []*ast.Field, index map[string]int) []*ast.Field {
	for _, s := range set {
		switch astType := s.(type) {
		case *ast.Field:
			if op.directiveBypass(astType.Directives) {
				continue
			}
			i, ok := index[astType.Alias]
			if !ok {
				index[astType.Alias] = len(fields)
				fields = append(fields, astType)
				continue
			}
			// Copy so that the query document is not modified
			merged := *fields[i]
			merged.SelectionSet = append(append(ast.SelectionSet(nil), merged.SelectionSet...), astType.SelectionSet...)
			fields[i] = &merged

		case *ast.InlineFragment:
			if !op.directiveBypass(astType.Directives) {
				fields = op.collectFields(astType.SelectionSet, fields, index)
			}

		case *ast.FragmentSpread:
			if !op.directiveBypass(astType.Directives) && astType.Definition != nil {
				fields = op.collectFields(astType.Definition.SelectionSet, fields, index)
			}
		}
	}
	return fields
}

// findField searches the data structs for the resolver of a field, returning a chan for its value
func (op *gqlOperation) findField(ctx context.Context, astField *ast.Field, data []reflect.Value, path ast.Path,
) <-chan gqlValue {
	fieldPath := appendPath(path, ast.PathName(astField.Alias))
	for _, v := range data {
		if ch := op.FindSelection(ctx, astField, v, fieldPath); ch != nil {
			return ch // we got a result so stop looking
		}
	}

	// Note that this is a bug (unless introspection is off) as the query has been validated against the schema
	err := fmt.Errorf("no resolver found for field %q", astField.Name)
	if op.noIntrospection && strings.HasPrefix(astField.Name, "__") {
		err = fmt.Errorf("introspection has been disabled (field %q)", astField.Name)
	}
	ch := make(chan gqlValue, 1)
	ch <- gqlValue{err: toGQLError(err, fieldPath)}
	close(ch)
	return ch
}

// FindSelection returns resolved value in a chan (if found), or nil (not found)
// Parameters:
//   - ctx: context that indicates if the request has been cancelled
//   - astField: contains the query name, arguments etc to be resolved
//   - v: struct which may contain the field required to resolve astField
//   - path: location of the field in the result
//
// Returns:
//   - if found: closed chan containing a single value or error
//   - if not found: nil
func (op *gqlOperation) FindSelection(ctx context.Context, astField *ast.Field, v reflect.Value, path ast.Path,
) <-chan gqlValue {
	if v.Kind() != reflect.Struct {
		// this is a bug that should have been caught during schema building
		panic("FindSelection: search of query field in non-struct")
	}

	if astField.Name == "__typename" { // __typename is a special introspection field (see GraphQL spec)
		r := make(chan gqlValue, 1)
		r <- gqlValue{name: astField.Alias, value: astField.ObjectDefinition.Name}
		close(r)
		return r
	}

	resolverData, ok := op.resolverLookup[v.Type()][astField.Name]
	if !ok {
		return nil
	}
	vField := v.FieldByIndex(resolverData.Index)

	if op.noConcurrency || vField.Kind() != reflect.Func {
		// Plain data fields (and all fields if concurrency is off) are resolved immediately
		ch := make(chan gqlValue, 1)
		op.wrapResolve(ctx, astField, vField, resolverData.Info, path, ch)
		return ch
	}
	ch := make(chan gqlValue, 1)
	// Calling wrapResolve as a go routine allows resolver functions to run in parallel
	go op.wrapResolve(ctx, astField, vField, resolverData.Info, path, ch)
	return ch
}

// wrapResolve calls resolve putting the return value on a chan and converting any panic to an error
func (op *gqlOperation) wrapResolve(ctx context.Context, astField *ast.Field, v reflect.Value, fieldInfo *field.Info,
	path ast.Path, ch chan<- gqlValue,
) {
	defer func() {
		// Convert any panics in resolvers into an (internal) error
		if recoverValue := recover(); recoverValue != nil {
			op.logger.WithField("field", astField.Name).Errorf("resolver panic: %v", recoverValue)
			ch <- gqlValue{err: toGQLError(fmt.Errorf("internal error: panic %v", recoverValue), path)}
		}
		close(ch)
	}()
	value, err := op.resolve(ctx, astField, v, fieldInfo, path)
	if err != nil {
		ch <- gqlValue{err: toGQLError(err, path)}
		return
	}
	ch <- gqlValue{name: astField.Alias, value: value}
}

// resolve calls a resolver given a query to obtain the results of the query (incl. listed and nested queries)
// Resolvers are often dynamic (where the resolver is a Go function) in which case the function is called to get the value.
// Parameters:
//
//	ctx = a Go context that could expire at any time
//	astField = a query or sub-query - a field of a GraphQL object
//	v = value of the resolver (field of Go struct)
//	fieldInfo = metadata for the resolver (eg parameter names) obtained from the struct field tag
//	path = location of the field in the result
func (op *gqlOperation) resolve(ctx context.Context, astField *ast.Field, v reflect.Value, fieldInfo *field.Info,
	path ast.Path,
) (interface{}, error) {
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return nil, fmt.Errorf("resolver function for %q has not been set", astField.Name)
		}
		var err error
		// For function fields, we have to call it to get the resolver value to use
		if v, err = op.fromFunc(ctx, astField, v, fieldInfo); err != nil {
			return nil, err
		}
	}
	return op.value(ctx, astField, v, fieldInfo, path)
}

// value converts the value of a resolver into something that can be encoded as JSON
func (op *gqlOperation) value(ctx context.Context, astField *ast.Field, v reflect.Value, fieldInfo *field.Info,
	path ast.Path,
) (interface{}, error) {
	if !v.IsValid() {
		return nil, nil
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem() // follow indirection
	}

	switch v.Kind() {
	case reflect.Struct:
		if len(astField.SelectionSet) == 0 {
			return nil, fmt.Errorf("no fields selected for %q", astField.Alias)
		}
		return op.GetSelections(ctx, astField.SelectionSet, []reflect.Value{v}, path)

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			if !fieldInfo.Nullable {
				return nil, fmt.Errorf("returning null when list %q is not nullable", astField.Alias)
			}
			return nil, nil
		}
		// resolve for all values in the list
		results := make([]interface{}, 0, v.Len()) // to distinguish empty slice from nil slice
		for i := 0; i < v.Len(); i++ {
			value, err := op.value(ctx, astField, v.Index(i), fieldInfo, appendPath(path, ast.PathIndex(i)))
			if err != nil {
				return nil, err
			}
			results = append(results, value)
		}
		return results, nil

	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// Just return the scalar value (Int, String, Boolean, or Float)
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("resolver for %q has unsupported type %v", astField.Alias, v.Type())
}

// directiveBypass handles field/fragment directives - just standard "skip" and "include"
// Returns: true if a directive indicates the field is not to be processed
func (op *gqlOperation) directiveBypass(directives ast.DirectiveList) bool {
	for _, d := range directives {
		if d.Name != "skip" && d.Name != "include" {
			continue
		}
		reverse := d.Name == "skip"
		for _, arg := range d.Arguments {
			if arg.Name == "if" {
				if rawValue, err := arg.Value.Value(op.variables); err != nil {
					panic(err) // value has already been validated
				} else if b, ok := rawValue.(bool); ok && b == reverse {
					return true
				}
			}
		}
	}
	return false
}

// appendPath returns a new path (without modifying the backing array of the original)
func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	r := make(ast.Path, len(path), len(path)+1)
	copy(r, path)
	return append(r, elem)
}
