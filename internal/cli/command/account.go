package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/core/service"
)

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-name", Usage: "First name"},
		&cli.StringFlag{Name: "last-name", Usage: "Last name"},
		&cli.StringFlag{Name: "phone", Usage: "Phone number"},
	}
}

// profileFromFlags returns the profile fields given on the command line, or
// nil when none was given.
func profileFromFlags(c *cli.Context) *domain.Profile {
	p := &domain.Profile{
		FirstName: c.String("first-name"),
		LastName:  c.String("last-name"),
		Phone:     c.String("phone"),
	}
	if c.IsSet("avatar") {
		p.Avatar = c.String("avatar")
	}
	if p.FirstName == "" && p.LastName == "" && p.Phone == "" && p.Avatar == "" {
		return nil
	}
	return p
}

func (e *env) profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the profile of the signed-in user",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Change profile fields; omitted fields are left as they are",
				Flags: append(profileFlags(),
					&cli.StringFlag{Name: "avatar", Usage: "Avatar URL"},
				),
				Action: e.profileUpdate,
			},
		},
	}
}

func (e *env) profileUpdate(c *cli.Context) error {
	profile := profileFromFlags(c)
	if profile == nil {
		return domain.ErrMissingArgument.WithDetails("nothing to update: give at least one of --first-name, --last-name, --phone, --avatar")
	}

	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	return rt.Report(service.OpUpdateProfile, service.FromContext(ctx).UpdateProfile(ctx, profile))
}

func (e *env) passwordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "Manage the password of the signed-in user",
		Subcommands: []*cli.Command{
			{
				Name:  "change",
				Usage: "Change the password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Usage: "Current password (prompted when omitted)"},
					&cli.StringFlag{Name: "new", Usage: "New password (prompted when omitted)"},
				},
				Action: e.passwordChange,
			},
		},
	}
}

func (e *env) passwordChange(c *cli.Context) error {
	ctx, rt, err := e.scope(c)
	if err != nil {
		return err
	}
	current, err := valueOrPrompt(c, "current", "Current password: ")
	if err != nil {
		return err
	}
	next, err := valueOrPrompt(c, "new", "New password: ")
	if err != nil {
		return err
	}

	return rt.Report(service.OpChangePassword, service.FromContext(ctx).ChangePassword(ctx, current, next))
}
