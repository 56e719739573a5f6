package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yndnr/smsauth/internal/cli/command"
	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/infra/shutdown"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := shutdown.SignalContext(context.Background())
	defer stop()

	app := command.App()
	err := app.RunContext(ctx, os.Args)
	if err == nil {
		return exitOK
	}

	// Failed session operations were already reported by the notifier.
	var opErr *command.OperationError
	if !errors.As(err, &opErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch domain.GetErrorCode(err) {
	case domain.ErrInvalidConfig.Code, domain.ErrMissingArgument.Code:
		return exitUsage
	default:
		return exitFailed
	}
}
