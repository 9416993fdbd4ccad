package handler

// execute.go handles the execution of a GraphQL request

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dolmen-go/jsonmap"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

type (
	// gqlRequest decodes and handles each GraphQL request
	gqlRequest struct {
		h *Handler

		// These are decoded from the http request body (JSON) or URL query parameters
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	// gqlResult contains the result (or errors) of the request to be encoded in JSON
	gqlResult struct {
		Data   *jsonmap.Ordered `json:"data,omitempty"`
		Errors gqlerror.List    `json:"errors,omitempty"`
	}
)

// fromURL gets the request from the URL query parameters of a GET request (variables are a JSON object)
func (g *gqlRequest) fromURL(r *http.Request) error {
	params := r.URL.Query()
	g.Query = params.Get("query")
	g.OperationName = params.Get("operationName")
	if vars := params.Get("variables"); strings.TrimSpace(vars) != "" {
		decoder := json.NewDecoder(strings.NewReader(vars))
		decoder.UseNumber()
		if err := decoder.Decode(&g.Variables); err != nil {
			return err
		}
	}
	return nil
}

// Execute parses and runs the request and returns the result
func (g *gqlRequest) Execute(ctx context.Context) (r gqlResult) {
	// First analyse and validate the query string
	query, err := parser.ParseQuery(&ast.Source{
		Name:  "query",
		Input: g.Query,
	})
	if err != nil {
		r.Errors = append(r.Errors, toGQLError(err, nil))
		return
	}

	if r.Errors = validator.Validate(g.h.schema, query); len(r.Errors) > 0 {
		return
	}

	operation, err2 := getOperation(query, g.OperationName)
	if err2 != nil {
		r.Errors = append(r.Errors, toGQLError(err2, nil))
		return
	}

	op := gqlOperation{Handler: g.h}
	// Get variables associated with this operation if any
	if len(operation.VariableDefinitions) > 0 {
		vars, err := validator.VariableValues(g.h.schema, operation, g.Variables)
		if err != nil {
			r.Errors = append(r.Errors, toGQLError(err, nil))
			return
		}
		for _, def := range operation.VariableDefinitions {
			path := ast.Path{ast.PathName("variable"), ast.PathName(def.Variable)}
			if err := checkInt(g.h.schema, def.Type, vars[def.Variable], path); err != nil {
				r.Errors = append(r.Errors, err)
				return
			}
		}
		op.variables = vars
	}

	if operation.Operation != ast.Query {
		r.Errors = append(r.Errors, gqlerror.Errorf("%s operations are not supported", operation.Operation))
		return
	}

	data, err2 := op.GetSelections(ctx, operation.SelectionSet, g.h.qData, nil)
	if err2 != nil {
		gqlErr := toGQLError(err2, nil)
		if gqlErr.Extensions == nil && operation.Name != "" {
			gqlErr.Extensions = map[string]interface{}{"operation": operation.Name}
		}
		r.Errors = append(r.Errors, gqlErr)
		return
	}
	r.Data = &data
	return
}

// getOperation finds the operation to execute - if the document has more than one then the name must be given
func getOperation(query *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		switch len(query.Operations) {
		case 0:
			return nil, errors.New("no operation found in query")
		case 1:
			return query.Operations[0], nil
		}
		return nil, errors.New("operationName is required when the query has more than one operation")
	}
	if operation := query.Operations.ForName(name); operation != nil {
		return operation, nil
	}
	return nil, errors.New("operation " + name + " not found in query")
}

// toGQLError converts a Go error into a GraphQL error (if it isn't one already), adding the path if known
func toGQLError(err error, path ast.Path) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = &gqlerror.Error{Message: err.Error()}
	}
	if gqlErr.Path == nil && path != nil {
		gqlErr.Path = path
	}
	return gqlErr
}

// checkInt rejects a variable value (or a value nested in a list or input object) of type Int that is not a
// 32-bit whole number.  The validator accepts any int64 (or float) for an Int variable.
func checkInt(schema *ast.Schema, t *ast.Type, value interface{}, path ast.Path) *gqlerror.Error {
	if value == nil {
		return nil
	}
	if t.Elem != nil {
		list, ok := value.([]interface{})
		if !ok {
			return checkInt(schema, t.Elem, value, path) // a single value is coerced to a list of one
		}
		for i, v := range list {
			if err := checkInt(schema, t.Elem, v, appendPath(path, ast.PathIndex(i))); err != nil {
				return err
			}
		}
		return nil
	}

	if t.NamedType == "Int" {
		if !isInt32(value) {
			return gqlerror.ErrorPathf(path, "cannot use value %v as Int", value)
		}
		return nil
	}

	def := schema.Types[t.NamedType]
	object, ok := value.(map[string]interface{})
	if def == nil || def.Kind != ast.InputObject || !ok {
		return nil
	}
	for _, f := range def.Fields {
		if err := checkInt(schema, f.Type, object[f.Name], appendPath(path, ast.PathName(f.Name))); err != nil {
			return err
		}
	}
	return nil
}

// isInt32 returns true if the value is a whole number that a GraphQL Int can represent
func isInt32(value interface{}) bool {
	switch v := value.(type) {
	case int64:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case int:
		return v >= math.MinInt32 && v <= math.MaxInt32
	case int32:
		return true
	case float64:
		return v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32
	case float32:
		return isInt32(float64(v))
	case string:
		_, err := strconv.ParseInt(v, 10, 32)
		return err == nil
	case json.Number:
		_, err := strconv.ParseInt(v.String(), 10, 32)
		return err == nil
	}
	return true // not a number - type errors are found by the validator
}
