package repl

import (
	"slices"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()
	c.Learn("user.login")
	c.Learn("user.logout")
	c.Learn("node.load")
	c.Learn("user.login")

	tests := []struct {
		name   string
		prefix string
		want   []string
	}{
		{"builtin prefix", ":re", []string{":reset", ":response"}},
		{"all builtins", ":", []string{":apikey", ":domain", ":header", ":persist", ":reset", ":response", ":token"}},
		{"learned methods", "user.", []string{"user.login", "user.logout"}},
		{"mixed", "e", []string{"exit"}},
		{"no match", "zzz", nil},
		{"second word", "user.login al", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_LearnKeepsSorted(t *testing.T) {
	c := NewCompleter()
	for _, m := range []string{"b.x", "a.x", "c.x", "a.x"} {
		c.Learn(m)
	}
	if want := []string{"a.x", "b.x", "c.x"}; !slices.Equal(c.methods, want) {
		t.Errorf("methods = %v, want %v", c.methods, want)
	}
}
