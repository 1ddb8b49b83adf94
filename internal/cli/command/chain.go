package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/xrpc-go/internal/core/domain"
	"github.com/yndnr/xrpc-go/internal/core/session"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// Script is a call chain read from YAML:
//
//	steps:
//	  - method: system.connect
//	  - method: user.login
//	    params: [alice, secret]
//	finally:
//	  - method: user.logout
type Script struct {
	Steps   []Step `yaml:"steps"`
	Finally []Step `yaml:"finally"`
}

// Step is one call in a Script.
type Step struct {
	Method string         `yaml:"method"`
	Params []domain.Value `yaml:"params"`
}

// LoadScript decodes and checks a script.
func LoadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("script is empty")
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	return &sc, nil
}

// Run invokes the steps as one chain on s and captures the response.
// The finally steps then run on the same session, after a Reset when
// the chain failed, so a logout still reaches the server. The captured
// response is returned.
func (sc *Script) Run(ctx context.Context, s *session.Session, log logger.Logger) domain.Response {
	for _, step := range sc.Steps {
		s.Invoke(ctx, step.Method, step.Params...)
	}
	resp := s.Response()

	if len(sc.Finally) == 0 {
		return resp
	}
	if resp.IsFailure() {
		s.Reset()
	}
	for _, step := range sc.Finally {
		s.Invoke(ctx, step.Method, step.Params...)
	}
	if err := s.Err(); err != nil {
		log.Warn("finally steps failed", "error", err)
	}
	return resp
}

// ChainCommand returns the chain command.
func ChainCommand() *cli.Command {
	return &cli.Command{
		Name:      "chain",
		Usage:     "Run a YAML call chain on one session",
		ArgsUsage: "FILE",
		Description: "FILE lists steps and optional finally steps, each with a method " +
			"and params. Use - to read the script from stdin.",
		Flags: []cli.Flag{
			sessionTokenFlag(),
		},
		Action: chainAction,
	}
}

func chainAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("chain: exactly one FILE is required")
	}
	st, err := getState(c)
	if err != nil {
		return err
	}

	sc, err := readScript(c, c.Args().First())
	if err != nil {
		return err
	}

	s, err := st.Session(sessionOptions(c)...)
	if err != nil {
		return err
	}

	return st.PrintResponse(sc.Run(c.Context, s, st.Log))
}

func readScript(c *cli.Context, path string) (*Script, error) {
	if path == "-" {
		return LoadScript(c.App.Reader)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return LoadScript(f)
}
