package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/smsauth/internal/cli/config"
	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/core/service"
	"github.com/yndnr/smsauth/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return newApp(&env{})
}

// env carries the Runtime of one application run. A shared Runtime belongs
// to the shell that created it and is never closed by the run.
type env struct {
	shared *Runtime
	rt     *Runtime
}

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:     buildinfo.ProductName,
		Usage:    "School Management System account client",
		Version:  buildinfo.Version,
		Flags:    globalFlags(),
		Commands: e.commands(),
		After: func(c *cli.Context) error {
			return e.close()
		},
	}
}

func (e *env) commands() []*cli.Command {
	return []*cli.Command{
		e.loginCommand(),
		e.registerCommand(),
		e.logoutCommand(),
		e.whoamiCommand(),
		e.profileCommand(),
		e.passwordCommand(),
		e.configCommand(),
		e.shellCommand(),
		versionCommand(),
	}
}

// globalFlags returns the global CLI flags. Environment variables are read by
// the configuration loader (SMSAUTH_SERVER, SMSAUTH_LOG_LEVEL, ...).
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default ~/.smsauth/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Backend base URL (e.g., http://localhost:5000/api)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more fields)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Usage: "Enable the offline development fallback (smsdev builds only)",
		},
	}
}

// configPath returns the --config value or the default path.
func configPath(c *cli.Context) string {
	if p := c.String("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// flagOverrides maps the global flags given on the command line to
// configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("server") {
		overrides["server"] = c.String("server")
	}
	if c.IsSet("output") {
		overrides["output"] = c.String("output")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("dev") {
		overrides["dev_mode"] = c.Bool("dev")
	}
	return overrides
}

func loadConfig(c *cli.Context) (*config.CLIConfig, error) {
	return config.Load(configPath(c), flagOverrides(c))
}

// runtime returns the Runtime of this run, building it on first use.
func (e *env) runtime(c *cli.Context) (*Runtime, error) {
	if e.shared != nil {
		return e.shared, nil
	}
	if e.rt != nil {
		return e.rt, nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	rt, err := NewRuntime(cfg, configPath(c), c.Bool("wide"), c.App.Writer, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	e.rt = rt
	return rt, nil
}

// scope returns the Runtime with its session resolved, and a context
// carrying its Store.
func (e *env) scope(c *cli.Context) (context.Context, *Runtime, error) {
	rt, err := e.runtime(c)
	if err != nil {
		return nil, nil, err
	}
	ctx := service.WithStore(c.Context, rt.Store)
	rt.Session(ctx)
	return ctx, rt, nil
}

func (e *env) close() error {
	if e.rt == nil {
		return nil
	}
	err := e.rt.Close()
	e.rt = nil
	return err
}

// prompt writes label to the error writer and reads one line from the app's
// reader. It reads byte by byte so that a reader shared with the shell is
// not consumed past the line.
func prompt(c *cli.Context, label string) (string, error) {
	fmt.Fprint(c.App.ErrWriter, label)

	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := c.App.Reader.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			if b.Len() == 0 {
				return "", domain.ErrMissingArgument.WithDetails("no input for " + strings.TrimSuffix(label, ": "))
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(b.String(), "\r"), nil
}

// valueOrPrompt returns the flag value, prompting for it when unset.
func valueOrPrompt(c *cli.Context, flag, label string) (string, error) {
	if v := c.String(flag); v != "" {
		return v, nil
	}
	v, err := prompt(c, label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", domain.ErrMissingArgument.WithDetails("--" + flag)
	}
	return v, nil
}
