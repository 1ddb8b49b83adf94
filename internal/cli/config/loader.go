package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/xrpc-go/internal/infra/confloader"
)

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// redacted replaces secrets in Redacted output.
const redacted = "********"

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".xrpc", "cli.yaml")
}

// DefaultHistoryPath returns the default REPL history file path.
func DefaultHistoryPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".xrpc", "history")
}

// Load loads CLI configuration from file and XRPC_ environment variables.
// A missing file yields the defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	defaults := cfg.Profiles
	cfg.Profiles = nil

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOptionalFile(),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = defaults
	}
	return cfg, nil
}

// Save saves CLI configuration to file with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Write to a temp file and rename so a failed write never truncates
	// the existing config.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Profile resolves a profile by name. An empty name selects
// CurrentProfile, then DefaultProfileName. A missing default profile
// resolves to the zero Profile so flags alone can describe the endpoint.
func (c *CLIConfig) Profile(name string) (Profile, error) {
	explicit := name != ""
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		name = DefaultProfileName
	}

	p, ok := c.Profiles[name]
	if !ok {
		if explicit || name != DefaultProfileName {
			return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return Profile{}, nil
	}
	p.Headers = maps.Clone(p.Headers)
	return p, nil
}

// Redacted returns a copy with API keys masked, for display.
func (c *CLIConfig) Redacted() *CLIConfig {
	out := *c
	out.Profiles = make(map[string]Profile, len(c.Profiles))
	for name, p := range c.Profiles {
		if p.APIKey != "" {
			p.APIKey = redacted
		}
		out.Profiles[name] = p
	}
	return &out
}

// Overrides carries command-line values. Nil fields were not set.
type Overrides struct {
	Host    *string
	APIKey  *string
	Domain  *string
	Persist *bool
	Timeout *string
	Headers map[string]string
}

// Merge applies flag overrides on top of a profile. Flag headers replace
// profile headers with the same name.
func Merge(p Profile, o Overrides) Profile {
	if o.Host != nil {
		p.Host = *o.Host
	}
	if o.APIKey != nil {
		p.APIKey = *o.APIKey
	}
	if o.Domain != nil {
		p.Domain = *o.Domain
	}
	if o.Persist != nil {
		v := *o.Persist
		p.Persist = &v
	}
	if o.Timeout != nil {
		p.Timeout = *o.Timeout
	}
	if len(o.Headers) > 0 {
		headers := maps.Clone(p.Headers)
		if headers == nil {
			headers = make(map[string]string, len(o.Headers))
		}
		maps.Copy(headers, o.Headers)
		p.Headers = headers
	}
	return p
}
