package command

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xrpc-go/internal/cli/config"
	"github.com/yndnr/xrpc-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration (API keys masked)",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:      "use",
				Usage:     "Set the current profile",
				ArgsUsage: "PROFILE",
				Action:    configUse,
			},
			{
				Name:   "profiles",
				Usage:  "List profiles",
				Action: configProfiles,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}

	// Nested settings read poorly as a table.
	f := st.formatter
	if st.Format == output.FormatTable {
		f = output.NewFormatter(output.FormatYAML, false)
	}
	return f.Format(c.App.Writer, st.Config.Redacted())
}

func configInit(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(st.ConfigPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", st.ConfigPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check config file: %w", err)
	}

	if err := config.Save(config.Default(), st.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", st.ConfigPath)
	return nil
}

func configUse(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("config use: exactly one PROFILE is required")
	}
	st, err := getState(c)
	if err != nil {
		return err
	}

	name := c.Args().First()
	if _, ok := st.Config.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", config.ErrProfileNotFound, name)
	}

	st.Config.CurrentProfile = name
	if err := config.Save(st.Config, st.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "current profile: %s\n", name)
	return nil
}

type profileRow struct {
	Name    string `json:"name" yaml:"name"`
	Current bool   `json:"current" yaml:"current"`
	Host    string `json:"host" yaml:"host"`
	APIKey  bool   `json:"api_key" yaml:"api_key"`
	Domain  string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

func configProfiles(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}

	current := st.Config.CurrentProfile
	if current == "" {
		current = config.DefaultProfileName
	}

	table := &output.Table{Headers: []string{"CURRENT", "NAME", "HOST", "API KEY", "DOMAIN"}}
	var rows []profileRow
	for _, name := range slices.Sorted(maps.Keys(st.Config.Profiles)) {
		p := st.Config.Profiles[name]
		row := profileRow{Name: name, Current: name == current, Host: p.Host, APIKey: p.APIKey != "", Domain: p.Domain}
		rows = append(rows, row)

		mark, key := "", "no"
		if row.Current {
			mark = "*"
		}
		if row.APIKey {
			key = "yes"
		}
		table.AddRow(mark, name, p.Host, key, p.Domain)
	}

	if st.Format == output.FormatTable {
		return st.Print(table)
	}
	return st.Print(rows)
}

func configPath(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, st.ConfigPath)
	return nil
}
