package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/funvibe/dsimp/internal/simp"
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		stop()
		os.Exit(code)
	}
}

// execute runs the command tree and reports its error, if any, once on
// stderr. It returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if errors.Is(err, simp.ErrCancelled) {
		fmt.Fprintln(stderr, "simplification cancelled")
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, simp.ErrCancelled):
		return 130
	case errors.Is(err, simp.ErrStepLimitExceeded):
		return 2
	default:
		return 1
	}
}
