package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xrpc-go/internal/cli/config"
	"github.com/yndnr/xrpc-go/internal/cli/connection"
	"github.com/yndnr/xrpc-go/internal/cli/output"
	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/infra/buildinfo"
	"github.com/yndnr/xrpc-go/internal/infra/shutdown"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
	"github.com/yndnr/xrpc-go/internal/telemetry/metric"
	"github.com/yndnr/xrpc-go/internal/telemetry/tracer"
)

// Exit codes returned by ExitCode.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitFault     = 2
	ExitTransport = 3
)

const (
	stateKey               = "state"
	defaultShutdownTimeout = 5 * time.Second
)

// App creates the CLI application. Telemetry and connection cleanup are
// registered on h and run when the app finishes.
func App(h *shutdown.Handler) *cli.App {
	if h == nil {
		h = shutdown.NewHandler(defaultShutdownTimeout, nil)
	}

	app := &cli.App{
		Name:    buildinfo.Product,
		Usage:   "XML-RPC client with key-authenticated sessions",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			CallCommand(),
			ChainCommand(),
			AuthCommand(),
			REPLCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			st, err := newState(c, h)
			if err != nil {
				return err
			}
			c.App.Metadata[stateKey] = st
			return nil
		},
		After: func(c *cli.Context) error {
			return h.Shutdown()
		},
		// Errors are reported by the caller so shutdown hooks always run.
		ExitErrHandler: func(*cli.Context, error) {},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Config file path",
			EnvVars:     []string{"XRPC_CONFIG"},
			DefaultText: "~/.xrpc/cli.yaml",
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Profile to use (default: current_profile from the config file)",
			EnvVars: []string{"XRPC_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "XML-RPC endpoint URL (e.g., https://example.com/xmlrpc.php)",
			EnvVars: []string{"XRPC_HOST"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Aliases: []string{"k"},
			Usage:   "API key for key authentication",
			EnvVars: []string{"XRPC_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "domain",
			Aliases: []string{"d"},
			Usage:   "Domain sent with signed calls (default: this host's name)",
			EnvVars: []string{"XRPC_DOMAIN"},
		},
		&cli.BoolFlag{
			Name:        "persist",
			Usage:       "Capture session tokens and halt the chain after a failure",
			EnvVars:     []string{"XRPC_PERSIST"},
			DefaultText: "on when an API key is set",
		},
		&cli.StringSliceFlag{
			Name:    "header",
			Aliases: []string{"H"},
			Usage:   `Extra HTTP header "Name: value" (repeatable)`,
			EnvVars: []string{"XRPC_HEADERS"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Per-call timeout",
			EnvVars: []string{"XRPC_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"XRPC_OUTPUT"},
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Do not truncate table cells",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"XRPC_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format: text, json",
			EnvVars: []string{"XRPC_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write call metrics in Prometheus text format to this file on exit",
			EnvVars: []string{"XRPC_METRICS_FILE"},
		},
		&cli.StringFlag{
			Name:    "trace-endpoint",
			Usage:   "OTLP/HTTP endpoint for call traces (e.g., http://localhost:4318)",
			EnvVars: []string{"XRPC_TRACE_ENDPOINT"},
		},
	}
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	ConfigPath string
	Profile    string

	Overrides config.Overrides

	Output string // table, json, yaml
	Wide   bool

	LogLevel      string
	LogFormat     string
	MetricsFile   string
	TraceEndpoint string
}

// ParseGlobalFlags extracts global flags from context. Profile fields are
// only overridden by flags that were set.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	f := &GlobalFlags{
		ConfigPath:    c.String("config"),
		Profile:       c.String("profile"),
		Output:        c.String("output"),
		Wide:          c.Bool("wide"),
		LogLevel:      c.String("log-level"),
		LogFormat:     c.String("log-format"),
		MetricsFile:   c.String("metrics-file"),
		TraceEndpoint: c.String("trace-endpoint"),
	}

	if c.IsSet("host") {
		v := c.String("host")
		f.Overrides.Host = &v
	}
	if c.IsSet("api-key") {
		v := c.String("api-key")
		f.Overrides.APIKey = &v
	}
	if c.IsSet("domain") {
		v := c.String("domain")
		f.Overrides.Domain = &v
	}
	if c.IsSet("persist") {
		v := c.Bool("persist")
		f.Overrides.Persist = &v
	}
	if c.IsSet("timeout") {
		v := c.Duration("timeout").String()
		f.Overrides.Timeout = &v
	}
	if values := c.StringSlice("header"); len(values) > 0 {
		headers, err := parseHeaders(values)
		if err != nil {
			return nil, err
		}
		f.Overrides.Headers = headers
	}
	return f, nil
}

// parseHeaders reads "Name: value" pairs.
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, raw := range values {
		name, value, ok := strings.Cut(raw, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", raw)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// State is the per-run environment shared by all commands.
type State struct {
	Flags       *GlobalFlags
	ConfigPath  string
	Config      *config.CLIConfig
	ProfileName string
	Profile     config.Profile
	Format      output.Format

	Log     logger.Logger
	Metrics *metric.Registry
	Tracer  *tracer.Provider
	Manager *connection.Manager

	profileErr error
	formatter  output.Formatter
	out        io.Writer
}

func newState(c *cli.Context, h *shutdown.Handler) (*State, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, err
	}

	path := flags.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Output = c.App.ErrWriter
	logCfg.Level = firstNonEmpty(flags.LogLevel, cfg.Log.Level, logCfg.Level)
	logCfg.Format = firstNonEmpty(flags.LogFormat, cfg.Log.Format, logCfg.Format)
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	format, err := output.ParseFormat(firstNonEmpty(flags.Output, cfg.DefaultOutput))
	if err != nil {
		return nil, err
	}

	st := &State{
		Flags:       flags,
		ConfigPath:  path,
		Config:      cfg,
		ProfileName: firstNonEmpty(flags.Profile, cfg.CurrentProfile, config.DefaultProfileName),
		Format:      format,
		Log:         log,
		formatter:   output.NewFormatter(format, flags.Wide),
		out:         c.App.Writer,
	}

	// A bad profile only matters to commands that connect.
	profile, err := cfg.Profile(flags.Profile)
	if err != nil {
		st.profileErr = err
	} else {
		st.Profile = config.Merge(profile, flags.Overrides)
	}

	if file := firstNonEmpty(flags.MetricsFile, cfg.Telemetry.MetricsFile); file != "" {
		st.Metrics = metric.NewRegistry(true)
		h.OnShutdown("metrics", func(context.Context) error {
			return st.Metrics.WriteTextfile(file)
		})
	}

	tp, err := tracer.New(c.Context, tracer.Config{
		ServiceName:    buildinfo.Product,
		ServiceVersion: buildinfo.Version,
		Endpoint:       firstNonEmpty(flags.TraceEndpoint, cfg.Telemetry.TraceEndpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	st.Tracer = tp
	h.OnShutdown("tracer", tp.Shutdown)

	st.Manager = connection.NewManager(
		connection.WithLogger(log),
		connection.WithMetrics(st.Metrics),
		connection.WithTracer(tp.Tracer()),
	)
	h.OnShutdown("connection", func(context.Context) error {
		return st.Manager.Disconnect()
	})

	return st, nil
}

// Session returns the current session, connecting with the resolved
// profile on first use.
func (st *State) Session(extra ...session.Option) (*session.Session, error) {
	if conn := st.Manager.Current(); conn != nil {
		return conn.Session, nil
	}
	if st.profileErr != nil {
		return nil, st.profileErr
	}
	conn, err := st.Manager.Connect(st.ProfileName, st.Profile, extra...)
	if err != nil {
		return nil, err
	}
	return conn.Session, nil
}

// Print formats v with the selected output format.
func (st *State) Print(v any) error {
	return st.formatter.Format(st.out, v)
}

// PrintResponse prints a Success value or returns the Failure cause.
func (st *State) PrintResponse(resp domain.Response) error {
	switch {
	case resp.IsSuccess():
		v, _ := resp.Value()
		return st.Print(v)
	case resp.IsFailure():
		return resp.Err()
	default:
		return errors.New("no call was made")
	}
}

// getState retrieves the per-run state from context.
func getState(c *cli.Context) (*State, error) {
	if st, ok := c.App.Metadata[stateKey].(*State); ok {
		return st, nil
	}
	return nil, errors.New("command state not initialized")
}

// sessionTokenFlag resumes a token captured by an earlier run.
func sessionTokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "session-token",
		Usage:   "Resume a session token (sessid) from an earlier run",
		EnvVars: []string{"XRPC_SESSION_TOKEN"},
	}
}

func sessionOptions(c *cli.Context) []session.Option {
	if tok := c.String("session-token"); tok != "" {
		return []session.Option{session.WithSessionToken(tok)}
	}
	return nil
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case domain.GetErrorCode(err) == domain.ErrRemoteFault.Code:
		return ExitFault
	case domain.IsDomainError(err, domain.ErrTransport.Code):
		return ExitTransport
	default:
		return ExitError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
