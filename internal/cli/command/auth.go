package command

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/smsauth/internal/cli/output"
	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/core/service"
)

func (e *env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
			},
		},
		Action: e.login,
	}
}

func (e *env) login(c *cli.Context) error {
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	email, err := valueOrPrompt(c, "email", "Email: ")
	if err != nil {
		return err
	}
	password, err := valueOrPrompt(c, "password", "Password: ")
	if err != nil {
		return err
	}

	return rt.Report(service.OpLogin, service.FromContext(ctx).Login(ctx, email, password))
}

func (e *env) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in with it",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Requested role (the backend decides)",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Extra registration field as key=value; JSON values are sent as is (repeatable)",
			},
		}, profileFlags()...),
		Action: e.register,
	}
}

func (e *env) register(c *cli.Context) error {
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	email, err := valueOrPrompt(c, "email", "Email: ")
	if err != nil {
		return err
	}
	password, err := valueOrPrompt(c, "password", "Password: ")
	if err != nil {
		return err
	}

	extra, err := parseExtraFields(c.StringSlice("set"))
	if err != nil {
		return err
	}
	reg := domain.Registration{
		Email:    email,
		Password: password,
		Role:     c.String("role"),
		Profile:  profileFromFlags(c),
		Extra:    extra,
	}

	return rt.Report(service.OpRegister, service.FromContext(ctx).Register(ctx, reg))
}

func (e *env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and forget the stored token",
		Action: e.logout,
	}
}

func (e *env) logout(c *cli.Context) error {
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	service.FromContext(ctx).Logout(ctx)
	return rt.Report(service.OpLogout, domain.Succeeded())
}

func (e *env) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: e.whoami,
	}
}

// whoami prints the session and fails when nobody is signed in, so scripts
// can test the exit status.
func (e *env) whoami(c *cli.Context) error {
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	store := service.FromContext(ctx)
	state := store.State()
	if err := rt.Print(output.NewSessionView(state, store.DevMode(), time.Now())); err != nil {
		return err
	}
	if !state.IsAuthenticated {
		return &OperationError{Op: "whoami", Message: domain.ErrNotAuthenticated.Message}
	}
	return nil
}

// parseExtraFields parses key=value pairs. A value that is valid JSON is sent
// verbatim, anything else as a JSON string.
func parseExtraFields(pairs []string) (map[string]json.RawMessage, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extra := make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, domain.ErrMissingArgument.WithDetails("--set expects key=value, got " + strconv.Quote(pair))
		}
		if json.Valid([]byte(value)) {
			extra[key] = json.RawMessage(value)
			continue
		}
		quoted, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		extra[key] = quoted
	}
	return extra, nil
}
