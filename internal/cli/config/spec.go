package config

import (
	"fmt"
	"time"
)

// DefaultProfileName is used when neither a flag nor the file selects a profile.
const DefaultProfileName = "default"

// CLIConfig is the configuration for xrpc-cli.
type CLIConfig struct {
	// CurrentProfile selects the profile used when --profile is not given.
	CurrentProfile string `koanf:"current_profile" yaml:"current_profile"`
	DefaultOutput  string `koanf:"default_output" yaml:"default_output"` // table, json, yaml

	Profiles map[string]Profile `koanf:"profiles" yaml:"profiles"`

	Log       LogConfig       `koanf:"log" yaml:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry" yaml:"telemetry,omitempty"`

	// HistoryFile stores REPL history. Empty uses the default location.
	HistoryFile string `koanf:"history_file" yaml:"history_file,omitempty"`
}

// Profile holds the settings for one remote endpoint.
type Profile struct {
	Host   string `koanf:"host" yaml:"host"`
	APIKey string `koanf:"api_key" yaml:"api_key,omitempty"`
	Domain string `koanf:"domain" yaml:"domain,omitempty"`

	// Persist overrides the session default (on iff an API key is set).
	Persist *bool             `koanf:"persist" yaml:"persist,omitempty"`
	Headers map[string]string `koanf:"headers" yaml:"headers,omitempty"`

	Timeout   string  `koanf:"timeout" yaml:"timeout,omitempty"` // Go duration, e.g. "30s"
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit,omitempty"`
	Burst     int     `koanf:"burst" yaml:"burst,omitempty"`
	UserAgent string  `koanf:"user_agent" yaml:"user_agent,omitempty"`

	TLS TLSConfig `koanf:"tls" yaml:"tls,omitempty"`
}

// TLSConfig holds client TLS settings for a profile.
type TLSConfig struct {
	CAFile             string `koanf:"ca_file" yaml:"ca_file,omitempty"`
	CertFile           string `koanf:"cert_file" yaml:"cert_file,omitempty"`
	KeyFile            string `koanf:"key_file" yaml:"key_file,omitempty"`
	ServerName         string `koanf:"server_name" yaml:"server_name,omitempty"`
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`   // debug, info, warn, error
	Format string `koanf:"format" yaml:"format"` // text, json
}

// TelemetryConfig controls optional metrics and tracing output.
type TelemetryConfig struct {
	MetricsFile   string `koanf:"metrics_file" yaml:"metrics_file,omitempty"`
	TraceEndpoint string `koanf:"trace_endpoint" yaml:"trace_endpoint,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		CurrentProfile: DefaultProfileName,
		DefaultOutput:  "table",
		Profiles: map[string]Profile{
			DefaultProfileName: {Host: "http://localhost/xmlrpc.php"},
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// TimeoutDuration parses Timeout. Zero means the transport default.
func (p Profile) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", p.Timeout)
	}
	return d, nil
}

// Validate checks a resolved profile before it is used to connect.
func (p Profile) Validate() error {
	if p.Host == "" {
		return fmt.Errorf("profile has no host")
	}
	if _, err := p.TimeoutDuration(); err != nil {
		return err
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if (p.TLS.CertFile == "") != (p.TLS.KeyFile == "") {
		return fmt.Errorf("tls.cert_file and tls.key_file must be set together")
	}
	return nil
}
