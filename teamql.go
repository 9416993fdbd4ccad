package teamql

// teamql.go generates the schema from the root query type and creates the GraphQL HTTP handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/handler"
	"github.com/teamql/teamql/internal/resolver"
	"github.com/teamql/teamql/internal/schema"
	"github.com/teamql/teamql/store"
)

// Schema builds and returns the GraphQL schema (SDL) of the API.  The schema only depends
// on the Go types of the resolvers so no store is needed.
func Schema() (string, error) {
	return schema.Build(resolver.Query{})
}

// New builds the schema and returns the HTTP handler that handles GraphQL queries of the store
func New(s *store.Store, opts ...func(*options)) (http.Handler, error) {
	str, err := Schema()
	if err != nil {
		return nil, err
	}

	opt := &options{}
	for _, option := range opts {
		option(opt)
	}
	var logger logrus.FieldLogger // stays nil (not a nil *logrus.Logger) unless set
	if opt.logger != nil {
		logger = opt.logger
	}
	q := resolver.New(s, logger)
	return handler.New(str, q, opt.handlerOptions()...), nil
}
