package handler

// options.go handles setting of handler options

// The use of closures for options makes it simple for the caller to add any desired options.  The
// handler.New() function takes as its last (variadic) parameter a slice of closures each with the
// signature func(*Handler).  The option functions below return such a closure which captures any
// parameters passed to the option function so that the handler can be modified when the closure is run:
//
//   handler.New(schema, query, handler.NoConcurrency(true))
//
// A pitfall is that if the same option function is used more than once then only the last use has any effect.

import (
	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/logging"
)

// SetOptions takes a slice of handler options (closures) and executes them
func (h *Handler) SetOptions(options ...func(*Handler)) {
	for _, option := range options {
		option(h)
	}

	// Set any options that still have their unset (zero) value
	if h.logger == nil {
		h.logger = logging.Discard()
	}
}

// NoIntrospection turns off introspection queries (__schema and __type)
func NoIntrospection(on bool) func(*Handler) {
	return func(h *Handler) {
		h.noIntrospection = on
	}
}

// NoConcurrency turns off concurrent execution of resolver functions
func NoConcurrency(on bool) func(*Handler) {
	return func(h *Handler) {
		h.noConcurrency = on
	}
}

// Logger sets where requests are logged - failed requests at warning level, others at debug level
func Logger(logger *logrus.Logger) func(*Handler) {
	return func(h *Handler) {
		h.logger = logger
	}
}
