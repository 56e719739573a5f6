package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/smsauth/internal/cli/config"
	"github.com/yndnr/smsauth/internal/cli/repl"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

func (e *env) shellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive shell sharing one session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (default ~/.smsauth/history)",
				Value: repl.DefaultHistoryFile(),
			},
		},
		Action: e.shell,
	}
}

func (e *env) shell(c *cli.Context) error {
	if e.shared != nil {
		return errors.New("already in a shell")
	}
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}

	overrides := flagOverrides(c)
	var r *repl.REPL
	r = repl.New(
		func(ctx context.Context, args []string) error {
			return runShared(ctx, rt, r, args)
		},
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithPrompt(func() string { return shellPrompt(rt) }),
		repl.WithHistory(repl.NewHistory(c.String("history"), repl.DefaultHistorySize)),
		repl.WithCompleter(repl.NewCompleter(CommandNames(newApp(&env{shared: rt})))),
		repl.WithLogger(rt.Logger),
		repl.WithConfigWatch(rt.ConfigPath, func(path string) {
			reloadLogLevel(rt, path, overrides)
		}),
	)
	return r.Run(logger.WithLogger(ctx, rt.Logger.With("component", "shell")))
}

// runShared runs one shell line with the shell's Runtime. Failed session
// operations were already reported to the user.
func runShared(ctx context.Context, rt *Runtime, r *repl.REPL, args []string) error {
	app := newApp(&env{shared: rt})
	app.Reader = r.Reader()
	app.Writer = rt.Out
	app.ErrWriter = rt.Err
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return nil
	}
	return err
}

func shellPrompt(rt *Runtime) string {
	state := rt.Store.State()
	if !state.IsAuthenticated || state.User == nil {
		return "smsauth> "
	}
	name := state.User.Email
	if name == "" {
		name = string(state.User.ID)
	}
	return "smsauth(" + name + ")> "
}

// reloadLogLevel applies log.level from the changed configuration file.
// Other settings take effect in the next shell.
func reloadLogLevel(rt *Runtime, path string, overrides map[string]any) {
	cfg, err := config.Load(path, overrides)
	if err != nil {
		rt.Logger.Warn("ignoring invalid configuration change", "file", path, "error", err)
		return
	}
	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	rt.Logger.Info("log level changed", "level", cfg.Log.Level)
}

// CommandNames lists the commands of app, subcommands as "parent child".
func CommandNames(app *cli.App) []string {
	var names []string
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name)
		for _, sub := range cmd.Subcommands {
			names = append(names, cmd.Name+" "+sub.Name)
		}
	}
	return names
}
