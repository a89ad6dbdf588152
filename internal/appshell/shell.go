// Package appshell wires a command runner to the process: signals, argv
// and the exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitCancelled is reported when a signal ended the run.
const ExitCancelled = 130

// Main runs run with a context cancelled by SIGINT/SIGTERM and exits with
// its code. A second signal while the run winds down exits at once.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	os.Exit(runMain(run, os.Args[1:], os.Stdout, os.Stderr))
}

func runMain(run func(context.Context, []string, io.Writer, io.Writer) int, argv []string, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case <-sig:
		case <-ctx.Done():
			return
		}
		cancel()
		select {
		case <-sig:
			os.Exit(ExitCancelled)
		case <-ctx.Done():
		}
	}()

	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitCancelled
	}
	return code
}
