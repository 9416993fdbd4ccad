package teamql

// run.go provides the MustRun function for quickly creating a GraphQL http handler

import (
	"net/http"

	"github.com/teamql/teamql/store"
)

// MustRun creates an http handler that handles GraphQL requests for the data in a store.
// It panics if the schema can't be generated, which can only be caused by a bad resolver
// type (not by bad data) so it is safe to use at startup, eg:
//
//	http.Handle("/graphql", teamql.MustRun(store.Default()))
func MustRun(s *store.Store, opts ...func(*options)) http.Handler {
	h, err := New(s, opts...)
	if err != nil {
		panic(err)
	}
	return h
}
