package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should fall back to the toolchain version")
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_InjectedGoVersion(t *testing.T) {
	old := GoVersion
	t.Cleanup(func() { GoVersion = old })

	GoVersion = "go1.99"
	if got := Get().GoVersion; got != "go1.99" {
		t.Errorf("GoVersion = %q, want injected value", got)
	}
}

func TestString(t *testing.T) {
	expected := Version + " (" + Commit + ") built at " + BuildTime
	if s := String(); s != expected {
		t.Errorf("String() = %q, want %q", s, expected)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	ua := UserAgent()
	if !strings.HasPrefix(ua, "xrpc-cli/v1.2.3 (") {
		t.Errorf("UserAgent() = %q", ua)
	}
	if !strings.Contains(ua, runtime.GOOS) {
		t.Errorf("UserAgent() = %q, missing OS", ua)
	}
}
