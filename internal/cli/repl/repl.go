package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/yndnr/xrpc-go/internal/cli/output"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// Prompt is printed before each line on a terminal.
const Prompt = "xrpc> "

// errExit ends the loop without error.
var errExit = errors.New("exit")

// REPL represents the Read-Eval-Print Loop over one session.
type REPL struct {
	session   *session.Session
	input     LineReader
	output    io.Writer
	formatter output.Formatter
	completer *Completer
	history   *History
	log       logger.Logger
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput reads lines from r instead of the terminal.
func WithInput(r LineReader) Option {
	return func(p *REPL) {
		p.input = r
	}
}

// WithOutput sets where results are printed.
func WithOutput(w io.Writer) Option {
	return func(p *REPL) {
		p.output = w
	}
}

// WithFormatter sets how call results are printed.
func WithFormatter(f output.Formatter) Option {
	return func(p *REPL) {
		p.formatter = f
	}
}

// WithHistory persists entered lines in h.
func WithHistory(h *History) Option {
	return func(p *REPL) {
		p.history = h
	}
}

// WithLogger sets the REPL logger.
func WithLogger(l logger.Logger) Option {
	return func(p *REPL) {
		p.log = l
	}
}

// New creates a REPL bound to s. Without WithInput it edits lines on the
// terminal.
func New(s *session.Session, opts ...Option) *REPL {
	r := &REPL{
		session:   s,
		formatter: output.NewFormatter(output.FormatTable, false),
		completer: NewCompleter(),
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	if r.output == nil {
		r.output = io.Discard
	}
	if err := r.history.Load(); err != nil {
		r.log.Warn("load history", "error", err)
	}
	if r.input == nil {
		r.input = NewTerminalReader(r.completer, r.history)
	}
	return r
}

// Run reads and evaluates lines until exit, end of input or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	defer func() {
		if err := r.input.Close(); err != nil {
			r.log.Debug("close line reader", "error", err)
		}
		if err := r.history.Save(); err != nil {
			r.log.Warn("save history", "error", err)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := r.input.Prompt(Prompt)
		if errors.Is(err, ErrInterrupted) {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if recordable(line) {
			r.history.Add(line)
			r.input.AppendHistory(line)
		}

		if err := r.execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(r.output, "error: %v\n", err)
		}
	}
}

// recordable keeps API keys out of history.
func recordable(line string) bool {
	return !strings.HasPrefix(line, ":apikey ")
}

func (r *REPL) execute(ctx context.Context, line string) error {
	words, err := SplitLine(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	name, args := words[0], words[1:]

	switch name {
	case "exit", "quit":
		return errExit
	case "help":
		r.printHelp()
		return nil
	case ":reset":
		r.session.Reset()
		fmt.Fprintln(r.output, "response cleared")
		return nil
	case ":response":
		return r.printResponse()
	case ":token":
		if tok := r.session.SessionToken(); tok != "" {
			fmt.Fprintln(r.output, tok)
		} else {
			fmt.Fprintln(r.output, "(none)")
		}
		return nil
	case ":persist":
		return r.persist(args)
	case ":domain":
		if len(args) > 1 {
			return fmt.Errorf("usage: :domain [NAME]")
		}
		if len(args) == 1 {
			r.session.SetDomain(args[0])
		} else {
			r.session.SetDomain("")
		}
		fmt.Fprintln(r.output, r.session.Domain())
		return nil
	case ":header":
		return r.header(args)
	case ":apikey":
		if len(args) > 1 {
			return fmt.Errorf("usage: :apikey [KEY]")
		}
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		r.session.SetAPIKey(key)
		if key == "" {
			fmt.Fprintln(r.output, "api key cleared")
		} else {
			fmt.Fprintln(r.output, "api key set")
		}
		return nil
	}

	if strings.HasPrefix(name, ":") {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return r.call(ctx, name, args)
}

func (r *REPL) call(ctx context.Context, method string, args []string) error {
	r.completer.Learn(method)

	r.session.Invoke(ctx, method, ParseArgs(args)...)
	resp := r.session.Response()
	if resp.IsFailure() {
		if r.session.Persist() {
			return fmt.Errorf("%v (chain halted, use :reset)", resp.Err())
		}
		return resp.Err()
	}
	v, _ := resp.Value()
	return r.formatter.Format(r.output, v)
}

func (r *REPL) printResponse() error {
	resp := r.session.Response()
	switch {
	case resp.IsSuccess():
		v, _ := resp.Value()
		return r.formatter.Format(r.output, v)
	case resp.IsFailure():
		fmt.Fprintf(r.output, "failure: %v\n", resp.Err())
	default:
		fmt.Fprintln(r.output, "unset")
	}
	return nil
}

func (r *REPL) persist(args []string) error {
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "on":
		r.session.SetPersist(true)
	case len(args) == 1 && args[0] == "off":
		r.session.SetPersist(false)
	default:
		return fmt.Errorf("usage: :persist [on|off]")
	}
	if r.session.Persist() {
		fmt.Fprintln(r.output, "persist on")
	} else {
		fmt.Fprintln(r.output, "persist off")
	}
	return nil
}

// header adds a request header. An existing header with the same name
// keeps its value.
func (r *REPL) header(args []string) error {
	switch len(args) {
	case 0:
		headers := r.session.Headers()
		for _, k := range slices.Sorted(maps.Keys(headers)) {
			fmt.Fprintf(r.output, "%s: %s\n", k, headers[k])
		}
		return nil
	case 1:
		return fmt.Errorf("usage: :header NAME VALUE")
	}
	name, value := http.CanonicalHeaderKey(args[0]), strings.Join(args[1:], " ")
	before, exists := r.session.Headers()[name]
	r.session.SetHeaders(map[string]string{name: value})
	if exists {
		fmt.Fprintf(r.output, "header %s already set to %q\n", name, before)
	}
	return nil
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `Calls:
  METHOD [ARG...]        invoke METHOD; each ARG is JSON or a plain string

Builtins:
  :reset                 clear the last response (resumes a halted chain)
  :response              show the last response
  :token                 show the session token
  :persist [on|off]      show or set persist mode
  :domain [NAME]         set the signing domain (no NAME: host name)
  :header [NAME VALUE]   list headers or add one
  :apikey [KEY]          set or clear the API key
  help                   show this help
  exit, quit             leave
`)
}
