// Package hostid resolves the caller name sent as the default domain.
//
// Resolution order:
//
//  1. SERVER_NAME, the virtual host name when running behind a web server
//  2. the local machine hostname
//  3. "localhost"
package hostid

import (
	"os"
	"strings"
)

// EnvServerName is consulted before the machine hostname.
const EnvServerName = "SERVER_NAME"

// Fallback is returned when no other name can be resolved.
const Fallback = "localhost"

// Resolver looks up the caller identity. The zero value uses the process
// environment and os.Hostname.
type Resolver struct {
	LookupEnv func(string) (string, bool)
	Hostname  func() (string, error)
}

// New returns a Resolver bound to the process environment.
func New() *Resolver {
	return &Resolver{}
}

// Name returns the resolved caller name. It never returns an empty string.
func (r *Resolver) Name() string {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvServerName); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	hostname := r.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	if h, err := hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h
		}
	}
	return Fallback
}

// Static is a fixed identity.
type Static string

// Name returns the fixed name.
func (s Static) Name() string {
	return string(s)
}
