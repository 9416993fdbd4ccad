package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teamql/teamql"
)

func TestSchemaFlag(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--schema"})

	err := cmd.Execute()
	Assertf(t, err == nil, "Expected no error, got %v", err)
	expected, _ := teamql.Schema()
	Assertf(t, out.String() == expected, "Expected schema %q, got %q", expected, out.String())
	Assertf(t, strings.Contains(out.String(), "team(\"team to find\" id: Int!): Team"), "Expected team query in %s", out.String())
}

func TestArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	Assertf(t, cmd.Execute() != nil, "Expected error for unexpected argument")
}

// TestRunServerErrors checks that startup problems are returned (so the process exits non-zero)
func TestRunServerErrors(t *testing.T) {
	dir := t.TempDir()
	badData := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badData, []byte(`{"teams":[{"id":1},{"id":1}]}`), 0o600); err != nil {
		t.Fatalf("Error writing data file: %v", err)
	}

	errorData := map[string]struct {
		key, value string
		problem    string
	}{
		"BadConfig":   {"LOG_LEVEL", "loud", "LOG_LEVEL"},
		"MissingData": {"DATA_FILE", filepath.Join(dir, "missing.json"), "missing.json"},
		"BadData":     {"DATA_FILE", badData, "repeated"},
		"BadAddr":     {"TEAMQL_ADDR", "no-such-host-:-1", "listening on"},
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil { // no .env files
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(wd)

	for name, data := range errorData {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"TEAMQL_ADDR", "GRAPHQL_PATH", "DATA_FILE", "LOG_LEVEL"} {
				t.Setenv(key, "")
			}
			t.Setenv("LOG_LEVEL", "panic") // keep the test output quiet
			t.Setenv(data.key, data.value)

			err := runServer(context.Background())
			if err == nil {
				t.Fatalf("Expected error %q but got no error", data.problem)
			}
			Assertf(t, strings.Contains(err.Error(), data.problem), "Expected error containing %q, got %q", data.problem, err.Error())
		})
	}
}

func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "✓" // tick
		failed  = "X"
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%s\t"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%s\t"+format, append([]interface{}{succeed}, args...)...)
	}
}
