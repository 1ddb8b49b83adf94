package repl

import (
	"bufio"
	"errors"
	"io"

	"github.com/peterh/liner"
)

// LineReader reads one input line per call and returns io.EOF at end of
// input. An interrupted line is returned as ErrInterrupted.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// ErrInterrupted reports a line aborted with Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// terminalReader edits lines with liner.
type terminalReader struct {
	state *liner.State
}

// NewTerminalReader returns a line editor on the process terminal, with
// completion from c and history seeded from h.
func NewTerminalReader(c *Completer, h *History) LineReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(c.Complete)
	for _, line := range h.Entries() {
		state.AppendHistory(line)
	}
	return &terminalReader{state: state}
}

func (r *terminalReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return line, err
}

func (r *terminalReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *terminalReader) Close() error {
	return r.state.Close()
}

// plainReader reads lines from a non-interactive input without prompting.
type plainReader struct {
	scanner *bufio.Scanner
}

// NewPlainReader reads lines from in, for piped scripts and tests.
func NewPlainReader(in io.Reader) LineReader {
	return &plainReader{scanner: bufio.NewScanner(in)}
}

func (r *plainReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *plainReader) AppendHistory(string) {}

func (r *plainReader) Close() error { return nil }
