// Package server runs the GraphQL handler in an HTTP server with health checks, metrics
// and request logging
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/config"
)

// timeoutBody is returned when a request takes longer than Config.RequestTimeout
const timeoutBody = `{"errors":[{"message":"request timed out"}]}`

const playgroundTitle = config.ServiceName + " GraphQL Playground"

// NewRouter creates a gin engine serving the GraphQL handler at cfg.GraphQLPath (and the
// playground at cfg.PlaygroundPath if it is enabled)
func NewRouter(cfg config.Config, graphql http.Handler, logger logrus.FieldLogger) *gin.Engine {
	m := newMetrics()

	router := gin.New()
	router.Use(RequestID())
	router.Use(AccessLog(logger))
	router.Use(Recovery(logger))
	router.Use(m.middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": config.ServiceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))

	if cfg.RequestTimeout > 0 {
		graphql = http.TimeoutHandler(graphql, cfg.RequestTimeout, timeoutBody)
	}
	// The GraphQL handler itself rejects methods other than GET and POST
	router.Any(cfg.GraphQLPath, gin.WrapH(graphql))

	if cfg.PlaygroundEnabled {
		router.GET(cfg.PlaygroundPath, gin.WrapH(playground.Handler(playgroundTitle, cfg.GraphQLPath)))
		logger.WithField("path", cfg.PlaygroundPath).Info("GraphQL Playground enabled")
	}
	return router
}

// Run listens on cfg.Addr and serves requests until ctx is cancelled, then shuts down
// gracefully.  When it is listening it writes the URL of the GraphQL endpoint to stdout.
func Run(ctx context.Context, cfg config.Config, graphql http.Handler, logger logrus.FieldLogger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w listening on %q", err, cfg.Addr)
	}
	return serve(ctx, ln, cfg, NewRouter(cfg, graphql, logger), logger, os.Stdout)
}

func serve(ctx context.Context, ln net.Listener, cfg config.Config, h http.Handler, logger logrus.FieldLogger, out io.Writer) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ln)
	}()
	logger.WithField("addr", ln.Addr().String()).Info("Starting HTTP server")
	fmt.Fprintf(out, "🚀  Server ready at http://%s%s\n", displayAddr(ln.Addr()), cfg.GraphQLPath)

	select {
	case err := <-served:
		return fmt.Errorf("%w serving HTTP", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx := context.Background()
	if cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%w serving HTTP", err)
	}
	logger.Info("Server stopped")
	return nil
}

// displayAddr gets the address for users to connect to, eg "localhost:4000" when listening on all interfaces
func displayAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || ip != nil && ip.IsUnspecified() {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
