package command

import (
	"slices"
	"strings"
	"testing"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/transport/xmlrpc/xmlrpctest"
)

func TestCallCommand(t *testing.T) {
	srv := xmlrpctest.NewServer()
	defer srv.Close()
	srv.HandleValue("node.load", map[string]any{"nid": 7, "title": "hello"})

	res := runApp(t, "", "--config", emptyConfig(t), "--host", srv.URL, "-o", "json",
		"call", "node.load", "7", `{"fields":["title"]}`, "plain")
	if res.err != nil {
		t.Fatalf("run: %v\nstderr: %s", res.err, res.stderr)
	}

	out := decodeJSON(t, res.stdout)
	if out["title"] != "hello" {
		t.Errorf("output = %v", out)
	}

	call, _ := srv.LastCall()
	if len(call.Params) != 3 {
		t.Fatalf("params = %#v", call.Params)
	}
	if call.Params[0] != int64(7) || call.Params[2] != "plain" {
		t.Errorf("params = %#v", call.Params)
	}
	if m, ok := call.Params[1].(map[string]any); !ok || len(m["fields"].([]any)) != 1 {
		t.Errorf("struct param = %#v", call.Params[1])
	}
}

func TestCallCommand_StringFlag(t *testing.T) {
	srv := xmlrpctest.NewServer()
	defer srv.Close()
	srv.HandleValue("echo", "ok")

	res := runApp(t, "", "--config", emptyConfig(t), "--host", srv.URL, "call", "-s", "echo", "42", "true")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}

	call, _ := srv.LastCall()
	if call.Params[0] != "42" || call.Params[1] != "true" {
		t.Errorf("params = %#v, want plain strings", call.Params)
	}
}

func TestCallCommand_Failures(t *testing.T) {
	srv := xmlrpctest.NewServer()
	defer srv.Close()
	srv.HandleFault("node.load", 404, "not found")

	closed := xmlrpctest.NewServer()
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name     string
		host     string
		args     []string
		wantCode int
	}{
		{"fault", srv.URL, []string{"call", "node.load", "1"}, ExitFault},
		{"unknown method", srv.URL, []string{"call", "no.such"}, ExitFault},
		{"transport", closedURL, []string{"call", "node.load"}, ExitTransport},
		{"empty method", srv.URL, []string{"call", ""}, ExitError},
		{"no method", srv.URL, []string{"call"}, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", emptyConfig(t), "--host", tt.host}, tt.args...)
			res := runApp(t, "", args...)
			if res.err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(res.err); got != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d (err: %v)", got, tt.wantCode, res.err)
			}
			if res.stdout != "" {
				t.Errorf("stdout = %q, want nothing on failure", res.stdout)
			}
		})
	}
}

func TestCallCommand_FaultIsLogged(t *testing.T) {
	srv := xmlrpctest.NewServer()
	defer srv.Close()
	srv.HandleFault("node.load", 404, "not found")

	res := runApp(t, "", "--config", emptyConfig(t), "--host", srv.URL,
		"--log-format", "json", "call", "node.load")
	if res.err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`"fault_code":404`, `"fault_string":"not found"`} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %s:\n%s", want, res.stderr)
		}
	}
}

func TestCallCommand_ResumeSessionToken(t *testing.T) {
	srv := newKeyedServer(t)
	cfg := emptyConfig(t)

	res := runApp(t, "", "--config", cfg, "--host", srv.URL, "--api-key", testAPIKey,
		"-o", "json", "call", "system.connect")
	if res.err != nil {
		t.Fatalf("connect: %v", res.err)
	}
	sessid, _ := decodeJSON(t, res.stdout)[domain.SessionTokenField].(string)
	if sessid == "" {
		t.Fatalf("no sessid in %s", res.stdout)
	}

	res = runApp(t, "", "--config", cfg, "--host", srv.URL, "--api-key", testAPIKey,
		"-o", "json", "call", "--session-token", sessid, "node.load", "1")
	if res.err != nil {
		t.Fatalf("node.load: %v", res.err)
	}
	if decodeJSON(t, res.stdout)["title"] != "hello" {
		t.Errorf("output = %s", res.stdout)
	}

	call, _ := srv.LastCall()
	if call.Session != sessid {
		t.Errorf("server saw session %q, want %q", call.Session, sessid)
	}
	if want := []string{"system.connect", "node.load"}; !slices.Equal(methods(srv), want) {
		t.Errorf("calls = %v, want %v", methods(srv), want)
	}
}

func TestCallCommand_KeyAuthWithoutToken(t *testing.T) {
	srv := newKeyedServer(t)

	res := runApp(t, "", "--config", emptyConfig(t), "--host", srv.URL, "--api-key", testAPIKey,
		"call", "node.load", "1")
	if ExitCode(res.err) != ExitFault {
		t.Errorf("err = %v, want fault for unauthenticated call", res.err)
	}
}
