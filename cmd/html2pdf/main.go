package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to an exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	root := newRootCommand(env)
	root.cmd.SetArgs(args)

	err := root.cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	// Conversion failures were already reported per input.
	var reported errReported
	if !errors.As(err, &reported) {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, ""))
	}
	return exitCodeFor(err)
}
