// Package config reads the server configuration from the environment.  Variables
// can also be set in .env and .env.local files in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ServiceName identifies this service in logs, metrics and health checks
const ServiceName = "teamql"

// Config is the configuration of the server
type Config struct {
	Addr            string        // listen address, eg ":4000"
	GraphQLPath     string        // URL path of the GraphQL endpoint
	DataFile        string        // JSON file of the data to serve (empty for the built-in data)
	LogLevel        logrus.Level
	NoIntrospection bool          // disables __schema and __type queries
	NoConcurrency   bool          // resolve root queries one at a time
	RequestTimeout  time.Duration // zero means no limit
	ShutdownTimeout time.Duration

	PlaygroundEnabled bool   // serve the GraphQL Playground (an in-browser IDE) using GET
	PlaygroundPath    string // URL path of the playground
}

// Environment variable names
const (
	EnvAddr            = "TEAMQL_ADDR"
	EnvGraphQLPath     = "GRAPHQL_PATH"
	EnvDataFile        = "DATA_FILE"
	EnvLogLevel        = "LOG_LEVEL"
	EnvNoIntrospection = "NO_INTROSPECTION"
	EnvNoConcurrency   = "NO_CONCURRENCY"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvPlayground      = "GRAPHQL_PLAYGROUND_ENABLED"
	EnvPlaygroundPath  = "GRAPHQL_PLAYGROUND_PATH"
	EnvGinMode         = "GIN_MODE" // the playground is off by default in release mode
)

// envFiles are loaded in order, later files overriding earlier ones
var envFiles = []string{".env", ".env.local"}

// LoadEnv loads environment variables from the .env files that exist.  Variables
// already set in the process environment are overridden.
func LoadEnv(logger *logrus.Logger) {
	loaded := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		loaded = append(loaded, file)
	}
	if logger == nil {
		return
	}
	if len(loaded) == 0 {
		logger.Debug("No env files loaded; using process environment")
	} else {
		logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
	}
}

// Load gets the configuration from the environment, using defaults for unset variables.
// Unlike the GetEnv functions it returns an error for a value that can't be parsed.
func Load() (Config, error) {
	cfg := Config{
		Addr:        GetEnv(EnvAddr, ":4000"),
		GraphQLPath: GetEnv(EnvGraphQLPath, "/graphql"),
		DataFile:    GetEnv(EnvDataFile, ""),
	}
	if !strings.HasPrefix(cfg.GraphQLPath, "/") {
		return Config{}, fmt.Errorf("%s %q must start with a slash", EnvGraphQLPath, cfg.GraphQLPath)
	}

	var err error
	if cfg.LogLevel, err = logrus.ParseLevel(GetEnv(EnvLogLevel, "info")); err != nil {
		return Config{}, fmt.Errorf("%w in %s", err, EnvLogLevel)
	}
	if cfg.NoIntrospection, err = parseBool(EnvNoIntrospection, false); err != nil {
		return Config{}, err
	}
	if cfg.NoConcurrency, err = parseBool(EnvNoConcurrency, false); err != nil {
		return Config{}, err
	}
	// Enable playground based on explicit config or GIN_MODE (default: enabled in non-release mode)
	if cfg.PlaygroundEnabled, err = parseBool(EnvPlayground, GetEnv(EnvGinMode, "debug") != "release"); err != nil {
		return Config{}, err
	}
	cfg.PlaygroundPath = GetEnv(EnvPlaygroundPath, strings.TrimSuffix(cfg.GraphQLPath, "/")+"/playground")
	if !strings.HasPrefix(cfg.PlaygroundPath, "/") {
		return Config{}, fmt.Errorf("%s %q must start with a slash", EnvPlaygroundPath, cfg.PlaygroundPath)
	}
	if cfg.PlaygroundEnabled && cfg.PlaygroundPath == cfg.GraphQLPath {
		return Config{}, fmt.Errorf("%s %q is the same as %s", EnvPlaygroundPath, cfg.PlaygroundPath, EnvGraphQLPath)
	}
	if cfg.RequestTimeout, err = parseDuration(EnvRequestTimeout, 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parseDuration(EnvShutdownTimeout, 30*time.Second); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetEnv gets an environment variable with a default value
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	value := GetEnv(key, strconv.FormatBool(defaultValue))
	r, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s %q is not a boolean", key, value)
	}
	return r, nil
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := GetEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	r, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w in %s", err, key)
	}
	if r < 0 {
		return 0, fmt.Errorf("%s %q must not be negative", key, value)
	}
	return r, nil
}
