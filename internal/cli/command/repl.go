package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xrpc-go/internal/cli/config"
	"github.com/yndnr/xrpc-go/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Start an interactive session",
		Flags: []cli.Flag{
			sessionTokenFlag(),
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}

	s, err := st.Session(sessionOptions(c)...)
	if err != nil {
		return err
	}

	historyFile := st.Config.HistoryFile
	if historyFile == "" {
		historyFile = config.DefaultHistoryPath()
	}

	opts := []repl.Option{
		repl.WithOutput(c.App.Writer),
		repl.WithFormatter(st.formatter),
		repl.WithHistory(repl.NewHistory(historyFile)),
		repl.WithLogger(st.Log),
	}
	// Line editing only applies to the process terminal.
	if c.App.Reader != os.Stdin {
		opts = append(opts, repl.WithInput(repl.NewPlainReader(c.App.Reader)))
	}

	return repl.New(s, opts...).Run(c.Context)
}
