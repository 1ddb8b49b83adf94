package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yndnr/xrpc-go/internal/cli/output"
	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/infra/hostid"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

type sentCall struct {
	method  string
	params  []domain.Value
	headers map[string]string
}

// fakeTransport answers every call from a per-method table.
type fakeTransport struct {
	replies map[string]domain.Value
	faults  map[string]bool
	calls   []sentCall
}

func (f *fakeTransport) Send(_ context.Context, method string, params []domain.Value, headers map[string]string) (domain.Value, error) {
	f.calls = append(f.calls, sentCall{method: method, params: params, headers: headers})
	if f.faults[method] {
		return nil, domain.NewFaultError(1, "boom")
	}
	return f.replies[method], nil
}

func newTestREPL(t *testing.T, input string, ft *fakeTransport, opts ...session.Option) (*REPL, *bytes.Buffer, *session.Session) {
	t.Helper()
	opts = append([]session.Option{
		session.WithIdentity(hostid.Static("client.test")),
		session.WithLogger(logger.Discard()),
	}, opts...)
	s := session.New("http://rpc.test/xmlrpc", ft, opts...)

	out := &bytes.Buffer{}
	r := New(s,
		WithInput(NewPlainReader(strings.NewReader(input))),
		WithOutput(out),
		WithFormatter(output.NewFormatter(output.FormatJSON, false)),
		WithLogger(logger.Discard()),
	)
	return r, out, s
}

func run(t *testing.T, r *REPL) {
	t.Helper()
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}

func TestREPL_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit", "exit\nsystem.connect\n"},
		{"quit", "quit\nsystem.connect\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{}
			r, _, _ := newTestREPL(t, tt.input, ft)
			run(t, r)
			if len(ft.calls) != 0 {
				t.Errorf("calls after exit = %d, want 0", len(ft.calls))
			}
		})
	}
}

func TestREPL_CancelledContext(t *testing.T) {
	ft := &fakeTransport{}
	r, _, _ := newTestREPL(t, "system.connect\n", ft)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(ft.calls) != 0 {
		t.Error("cancelled REPL should not call")
	}
}

func TestREPL_Call(t *testing.T) {
	ft := &fakeTransport{replies: map[string]domain.Value{
		"node.load": map[string]any{"nid": int64(7), "title": "hello"},
	}}
	r, out, _ := newTestREPL(t, "node.load 7 '{\"fields\": [\"title\"]}' plain\n", ft)
	run(t, r)

	if len(ft.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(ft.calls))
	}
	want := []domain.Value{int64(7), map[string]any{"fields": []any{"title"}}, "plain"}
	got := ft.calls[0].params
	if len(got) != len(want) || got[0] != want[0] || got[2] != want[2] {
		t.Errorf("params = %#v, want %#v", got, want)
	}
	if !strings.Contains(out.String(), `"title": "hello"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestREPL_FailureHaltsUntilReset(t *testing.T) {
	ft := &fakeTransport{
		replies: map[string]domain.Value{"system.connect": map[string]any{"sessid": "S1"}},
		faults:  map[string]bool{"bad.method": true},
	}
	input := strings.Join([]string{
		"bad.method",
		"system.connect",
		":response",
		":reset",
		":response",
		"system.connect",
		":token",
	}, "\n") + "\n"

	r, out, s := newTestREPL(t, input, ft, session.WithPersist(true))
	run(t, r)

	var methods []string
	for _, c := range ft.calls {
		methods = append(methods, c.method)
	}
	if want := []string{"bad.method", "system.connect"}; !slices.Equal(methods, want) {
		t.Errorf("transport calls = %v, want %v", methods, want)
	}

	text := out.String()
	for _, want := range []string{"chain halted", "failure:", "response cleared", "unset", "S1"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if s.SessionToken() != "S1" {
		t.Errorf("SessionToken() = %q", s.SessionToken())
	}
}

func TestREPL_FailureWithoutPersist(t *testing.T) {
	ft := &fakeTransport{
		faults:  map[string]bool{"bad.method": true},
		replies: map[string]domain.Value{"ok.method": "fine"},
	}
	r, out, _ := newTestREPL(t, "bad.method\nok.method\n", ft)
	run(t, r)

	if len(ft.calls) != 2 {
		t.Errorf("calls = %d, want 2 (no halting without persist)", len(ft.calls))
	}
	if strings.Contains(out.String(), "chain halted") {
		t.Error("chain halted message without persist")
	}
	if !strings.Contains(out.String(), "fine") {
		t.Errorf("output = %s", out.String())
	}
}

func TestREPL_SessionBuiltins(t *testing.T) {
	ft := &fakeTransport{}
	input := strings.Join([]string{
		":persist on",
		":domain example.test",
		":header x-trace 1",
		":header X-Trace 2",
		":header",
		":apikey k",
		":token",
		":domain",
		":persist off",
	}, "\n") + "\n"

	r, out, s := newTestREPL(t, input, ft)
	run(t, r)

	if s.Persist() {
		t.Error("persist should end off")
	}
	if !s.HasAPIKey() {
		t.Error(":apikey should set the key")
	}
	if s.Domain() != "client.test" {
		t.Errorf("Domain() = %q, want re-derived client.test", s.Domain())
	}
	if got := s.Headers()["X-Trace"]; got != "1" {
		t.Errorf("X-Trace = %q, want first value kept", got)
	}

	text := out.String()
	for _, want := range []string{"persist on", "example.test", `already set to "1"`, "X-Trace: 1", "api key set", "(none)", "persist off"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":bogus", "unknown command"},
		{":persist maybe", "usage: :persist"},
		{":header OnlyName", "usage: :header"},
		{":domain a b", "usage: :domain"},
		{":apikey a b", "usage: :apikey"},
		{`node.load "unterminated`, "parse line"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ft := &fakeTransport{}
			r, out, _ := newTestREPL(t, tt.line+"\n", ft)
			run(t, r)
			if !strings.Contains(out.String(), "error: ") || !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want error containing %q", out.String(), tt.want)
			}
		})
	}
}

func TestREPL_Help(t *testing.T) {
	r, out, _ := newTestREPL(t, "help\n", &fakeTransport{})
	run(t, r)
	for _, b := range Builtins {
		if !strings.Contains(out.String(), b) {
			t.Errorf("help missing %q", b)
		}
	}
}

func TestREPL_History(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	ft := &fakeTransport{replies: map[string]domain.Value{"system.connect": "ok"}}

	s := session.New("http://rpc.test", ft, session.WithLogger(logger.Discard()))
	h := NewHistory(path)
	r := New(s,
		WithInput(NewPlainReader(strings.NewReader("  system.connect  \n:apikey secret\n\n:token\n"))),
		WithHistory(h),
		WithLogger(logger.Discard()),
	)
	run(t, r)

	if want := []string{"system.connect", ":token"}; !slices.Equal(h.Entries(), want) {
		t.Errorf("history = %v, want %v", h.Entries(), want)
	}

	saved := NewHistory(path)
	if err := saved.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Len() != 2 {
		t.Errorf("saved history = %v", saved.Entries())
	}
}

func TestREPL_LearnsMethods(t *testing.T) {
	r, _, _ := newTestREPL(t, "user.login a b\n", &fakeTransport{})
	run(t, r)

	if got := r.completer.Complete("user."); !slices.Equal(got, []string{"user.login"}) {
		t.Errorf("Complete(user.) = %v", got)
	}
}

type errReader struct{}

func (errReader) Prompt(string) (string, error) { return "", errors.New("tty gone") }
func (errReader) AppendHistory(string)          {}
func (errReader) Close() error                  { return nil }

func TestREPL_ReaderError(t *testing.T) {
	s := session.New("http://rpc.test", &fakeTransport{}, session.WithLogger(logger.Discard()))
	r := New(s, WithInput(errReader{}), WithLogger(logger.Discard()))
	if err := r.Run(context.Background()); err == nil {
		t.Error("Run() should return the reader error")
	}
}
