package teamql

// options.go handles options that can be used to control the GraphQL server.
// Most options are just passed on to the handler. (See internal/handler/options.go
// for details on how closures are used to handle options.)

import (
	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/handler"
)

type options struct {
	noIntrospection, noConcurrency bool
	logger                         *logrus.Logger
}

// NoIntrospection controls whether introspection queries (__schema and __type) are permitted
func NoIntrospection(on bool) func(*options) {
	return func(opt *options) {
		opt.noIntrospection = on
	}
}

// NoConcurrency controls whether concurrent execution of query resolvers is permitted
func NoConcurrency(on bool) func(*options) {
	return func(opt *options) {
		opt.noConcurrency = on
	}
}

// Logger sets the logger used for requests and resolvers.  Without it nothing is logged.
func Logger(logger *logrus.Logger) func(*options) {
	return func(opt *options) {
		opt.logger = logger
	}
}

// handlerOptions converts the options to the equivalent handler options
func (opt *options) handlerOptions() []func(*handler.Handler) {
	r := []func(*handler.Handler){
		handler.NoIntrospection(opt.noIntrospection),
		handler.NoConcurrency(opt.noConcurrency),
	}
	if opt.logger != nil {
		r = append(r, handler.Logger(opt.logger))
	}
	return r
}
