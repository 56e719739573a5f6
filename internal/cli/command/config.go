package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/knadh/koanf/maps"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/smsauth/internal/cli/config"
	"github.com/yndnr/smsauth/internal/cli/output"
)

func (e *env) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (file, environment and flags merged)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPathAction,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration",
				Action: configValidate,
			},
			{
				Name:  "init",
				Usage: "Write a configuration file with the current settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	settings, err := settingsMap(cfg.Redacted())
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		flat, _ := maps.Flatten(settings, nil, ".")
		return output.NewFormatter(format, false).Format(c.App.Writer, flat)
	}
	return output.NewFormatter(format, false).Format(c.App.Writer, settings)
}

// settingsMap converts cfg to the nested map of its YAML form.
func settingsMap(cfg *config.CLIConfig) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return m, nil
}

func configPathAction(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, configPath(c))
	return nil
}

func configValidate(c *cli.Context) error {
	if _, err := loadConfig(c); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "✓ Configuration is valid: %s\n", configPath(c))
	return nil
}

func configInit(c *cli.Context) error {
	path := configPath(c)
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "✓ Configuration written to %s\n", path)
	return nil
}
