// Package teamql is a GraphQL server for the teams of an office, the equipment
// they use and the supplies they own.
//
// The GraphQL schema is not written by hand.  It is generated from the Go types
// of the root query (see internal/resolver) so the schema can't get out of step
// with the Go data structures.  The values of the same struct are the resolvers
// used to answer queries.  Here is a complete server:
//
//	package main
//
//	import (
//		"net/http"
//
//		"github.com/teamql/teamql"
//		"github.com/teamql/teamql/store"
//	)
//
//	func main() {
//		http.Handle("/graphql", teamql.MustRun(store.Default()))
//		http.ListenAndServe(":4000", nil)
//	}
//
// which answers queries like this:
//
//	{
//	  team(id: 1) {
//	    manager
//	    supplies { id }
//	  }
//	}
//
// The data is read-only so queries can run concurrently.  Mutations and
// subscriptions are not supported.  See cmd/teamql for the full server with
// configuration, logging and metrics.
package teamql
