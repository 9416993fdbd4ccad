// Command teamql runs the GraphQL server for office teams, equipments and supplies.
// It is configured with environment variables (see internal/config), or use --schema
// to print the GraphQL schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teamql/teamql"
	"github.com/teamql/teamql/internal/config"
	"github.com/teamql/teamql/internal/logging"
	"github.com/teamql/teamql/internal/server"
	"github.com/teamql/teamql/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the command that runs the server
func newRootCmd() *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "teamql",
		Short: "GraphQL server for office teams, equipments and supplies",
		Long: `Serve read-only GraphQL queries of the teams of an office, the equipment
they use and the supplies they own.

Configuration is taken from the environment and from .env and .env.local
files: TEAMQL_ADDR, GRAPHQL_PATH, DATA_FILE, LOG_LEVEL, NO_INTROSPECTION,
NO_CONCURRENCY, REQUEST_TIMEOUT, SHUTDOWN_TIMEOUT, GRAPHQL_PLAYGROUND_ENABLED
and GRAPHQL_PLAYGROUND_PATH.  The playground is enabled by default unless
GIN_MODE is release.`,
		Example: `  # Serve the built-in data at http://localhost:4000/graphql
  teamql

  # Print the GraphQL schema
  teamql --schema`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				return runSchema(cmd)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}

	cmd.Flags().BoolVar(&printSchema, "schema", false, "Print the GraphQL schema and exit")
	return cmd
}

// runSchema writes the schema to the command's output
func runSchema(cmd *cobra.Command) error {
	s, err := teamql.Schema()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), s)
	return err
}

// runServer loads the configuration and data and serves requests until ctx is cancelled.
// Errors are logged here so the caller only needs to set the exit status.
func runServer(ctx context.Context) error {
	logger := logging.NewLogger(logrus.InfoLevel)
	config.LoadEnv(logger)
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	s := store.Default()
	if cfg.DataFile != "" {
		if s, err = store.LoadFile(cfg.DataFile); err != nil {
			logger.WithError(err).WithField("file", cfg.DataFile).Error("Failed to load data")
			return err
		}
	}

	h, err := teamql.New(s,
		teamql.NoIntrospection(cfg.NoIntrospection),
		teamql.NoConcurrency(cfg.NoConcurrency),
		teamql.Logger(logger),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to create GraphQL handler")
		return err
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := server.Run(ctx, cfg, h, logger); err != nil {
		logger.WithError(err).Error("Server failed")
		return err
	}
	return nil
}
