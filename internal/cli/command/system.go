package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/smsauth/internal/cli/output"
	"github.com/yndnr/smsauth/internal/devmode"
	"github.com/yndnr/smsauth/internal/infra/buildinfo"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: version,
	}
}

func version(c *cli.Context) error {
	format := output.FormatTable
	if c.IsSet("output") {
		f, err := output.ParseFormat(c.String("output"))
		if err != nil {
			return err
		}
		format = f
	}
	return output.NewFormatter(format, false).Format(c.App.Writer, buildinfo.Get(devmode.Compiled()))
}
