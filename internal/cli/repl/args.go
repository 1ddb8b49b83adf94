package repl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kballard/go-shellquote"

	"github.com/yndnr/xrpc-go/internal/core/domain"
)

// SplitLine splits an input line into words using shell quoting rules.
func SplitLine(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse line: %w", err)
	}
	return words, nil
}

// ParseArgs converts command-line words into call parameters.
func ParseArgs(args []string) []domain.Value {
	params := make([]domain.Value, 0, len(args))
	for _, a := range args {
		params = append(params, ParseValue(a))
	}
	return params
}

// ParseValue reads s as a JSON literal. Anything that is not exactly one
// JSON value is taken as a plain string. Integral numbers become int64
// so they encode as <int>; other numbers become float64.
func ParseValue(s string) domain.Value {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return s
	}
	if _, err := dec.Token(); err != io.EOF {
		return s
	}
	return normalize(v)
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}
