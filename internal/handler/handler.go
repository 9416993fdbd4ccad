// Package handler implements an HTTP handler to process GraphQL queries given an
// instance of a query struct and a corresponding GraphQL schema.
package handler

// handler.go implements the handler and it's ServeHTTP method

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type (
	// Handler stores the invariants (schema and structs) used in the GraphQL requests
	Handler struct {
		schema         *ast.Schema
		qData          []reflect.Value // query struct then (optionally) introspection data
		resolverLookup ResolverLookupTables

		// options
		noIntrospection, noConcurrency bool
		logger                         *logrus.Logger
	}
)

// New is the main handler function that returns an HTTP handler given a schema PLUS a corresponding
// instance of the query struct, whose fields are the resolvers used to fulfill queries.
// It panics if the schema is invalid as that is a bug in the caller (normally the schema is
// generated from the query struct using schema.Build).
func New(schemaString string, query interface{}, options ...func(*Handler)) *Handler {
	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema",
		Input: schemaString,
	})
	if err != nil {
		panic("handler.New - error making schema: " + err.Error())
	}

	h := &Handler{schema: schema}
	h.SetOptions(options...)
	h.qData = []reflect.Value{structValue(query)}
	if !h.noIntrospection {
		h.qData = append(h.qData, reflect.ValueOf(*NewIntrospectionData(schema)))
	}
	h.makeResolverTables()
	return h
}

// structValue follows pointers to get the struct that contains the resolvers
func structValue(data interface{}) reflect.Value {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("handler.New - query must be a struct (not %v)", v.Kind()))
	}
	return v
}

// ServeHTTP receives a GraphQL query as an HTTP request, executes the
// query and generates an HTTP response or error message
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Content-Type", "application/json")

	g := gqlRequest{h: h}
	switch r.Method {
	case http.MethodGet:
		if err := g.fromURL(r); err != nil {
			writeError(w, http.StatusBadRequest, "Error decoding query parameters: "+err.Error())
			return
		}
	case http.MethodPost:
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber() // allows us to distinguish ints from floats (see FixNumberVariables() below)
		if err := decoder.Decode(&g); err != nil {
			writeError(w, http.StatusBadRequest, "Error decoding JSON request: "+err.Error())
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
		return
	}

	// Since variables are sent as JSON (which does not distinguish int/float) we need to decide
	FixNumberVariables(g.Variables)

	result := g.Execute(r.Context())
	entry := h.logger.WithFields(logrus.Fields{
		"operation": g.OperationName,
		"duration":  time.Since(start).String(),
	})
	if len(result.Errors) > 0 {
		entry.WithField("errors", result.Errors.Error()).Warn("GraphQL request failed")
	} else {
		entry.Debug("GraphQL request")
	}

	if buf, err := json.Marshal(result); err != nil {
		writeError(w, http.StatusInternalServerError, "Error encoding JSON response: "+err.Error())
	} else {
		_, _ = w.Write(buf)
	}
}

// writeError sends a response with a single GraphQL error (and no data)
func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	buf, _ := json.Marshal(gqlResult{Errors: gqlerror.List{gqlerror.Errorf("%s", message)}})
	_, _ = w.Write(buf)
}

// FixNumberVariables goes through the structure created by the JSON decoder, converting any json.Number values to
// either an int64 or a float64.  This assumes that all the JSON numbers were decoded into a json.Number type, rather
// than int/float, by use of the json.Decode.UseNumber() method.
func FixNumberVariables(m map[string]interface{}) {
	for key, val := range m {
		m[key] = fixNumber(val)
	}
}

// fixNumber converts a json.Number, or numbers nested in an object or list
func fixNumber(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String() // out of range - leave it to the validator to complain

	case map[string]interface{}:
		FixNumberVariables(v) // recursively handle nested numbers

	case []interface{}:
		for i := range v {
			v[i] = fixNumber(v[i])
		}
	}
	return value
}
