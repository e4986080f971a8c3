package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/driftguard/internal/cmd"
	"github.com/felixgeelhaar/driftguard/internal/exitcode"
	"github.com/felixgeelhaar/driftguard/internal/ux"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.DetermineExitCode(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", ux.EnhanceError(err))
		fmt.Fprintf(os.Stderr, "exit %d: %s\n", code, exitcode.GetExitCodeDescription(code))
		exitcode.Exit(code)
	}
	exitcode.Exit(exitcode.Success)
}
