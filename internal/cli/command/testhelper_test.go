package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/xrpc-go/internal/infra/shutdown"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
	"github.com/yndnr/xrpc-go/internal/transport/xmlrpc/xmlrpctest"
)

const testAPIKey = "test-key"

// runResult captures one CLI run.
type runResult struct {
	stdout string
	stderr string
	err    error
}

// runApp runs the CLI with args, feeding stdin, and captures its output.
func runApp(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := App(shutdown.NewHandler(time.Second, logger.Discard()))
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(stdin)

	err := app.RunContext(context.Background(), append([]string{"xrpc-cli"}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// emptyConfig returns a path with no config file behind it.
func emptyConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.yaml")
}

// newKeyedServer starts a fake endpoint with a session service that
// requires key authentication for everything but system.connect.
func newKeyedServer(t *testing.T) *xmlrpctest.Server {
	t.Helper()
	srv := xmlrpctest.NewServer()
	t.Cleanup(srv.Close)

	v := xmlrpctest.NewVerifier(testAPIKey, 5*time.Minute)
	srv.InstallSessionMethods(v, map[string]string{"alice": "secret"})
	srv.HandleValue("node.load", map[string]any{"nid": 1, "title": "hello"})
	srv.RequireKeyAuth(v, "user.login", "user.logout", "node.load")
	return srv
}

// decodeJSON parses JSON command output.
func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, s)
	}
	return m
}

// methods lists the method names a server received.
func methods(srv *xmlrpctest.Server) []string {
	var names []string
	for _, c := range srv.Calls() {
		names = append(names, c.Method)
	}
	return names
}
