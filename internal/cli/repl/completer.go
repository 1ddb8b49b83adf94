package repl

import (
	"slices"
	"strings"
	"sync"
)

// Builtins lists the REPL commands that are not remote calls.
var Builtins = []string{
	":apikey", ":domain", ":header", ":persist", ":reset", ":response", ":token",
	"exit", "help", "quit",
}

// Completer completes the first word of a line from the builtins and
// the method names already called in this REPL.
type Completer struct {
	mu      sync.Mutex
	methods []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{}
}

// Learn records a method name for later completion.
func (c *Completer) Learn(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, found := slices.BinarySearch(c.methods, method)
	if !found {
		c.methods = slices.Insert(c.methods, i, method)
	}
}

// Complete returns candidate lines for the given prefix. Only the first
// word is completed.
func (c *Completer) Complete(prefix string) []string {
	if strings.ContainsAny(prefix, " \t") {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var suggestions []string
	for _, cmd := range Builtins {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	for _, m := range c.methods {
		if strings.HasPrefix(m, prefix) {
			suggestions = append(suggestions, m)
		}
	}
	return suggestions
}
