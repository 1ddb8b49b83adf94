package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xrpc-go/internal/cli/repl"
	"github.com/yndnr/xrpc-go/internal/core/domain"
)

// CallCommand returns the call command.
func CallCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Invoke one remote method and print the result",
		ArgsUsage: "METHOD [ARG...]",
		Description: "Each ARG is parsed as a JSON literal when it is one (42, true, " +
			"\"text\", [1,2], {\"k\":\"v\"}) and sent as a plain string otherwise.",
		Flags: []cli.Flag{
			sessionTokenFlag(),
			&cli.BoolFlag{
				Name:    "string",
				Aliases: []string{"s"},
				Usage:   "Send every ARG as a plain string",
			},
		},
		Action: callAction,
	}
}

func callAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("call: METHOD is required")
	}
	st, err := getState(c)
	if err != nil {
		return err
	}

	s, err := st.Session(sessionOptions(c)...)
	if err != nil {
		return err
	}

	method, args := c.Args().First(), c.Args().Tail()
	var params []domain.Value
	if c.Bool("string") {
		for _, a := range args {
			params = append(params, a)
		}
	} else {
		params = repl.ParseArgs(args)
	}

	s.Invoke(c.Context, method, params...)
	return st.PrintResponse(s.Response())
}
