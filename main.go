// Package main is the entry point for the bcgen CLI application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/eykd/barcodegen/cmd"
)

func main() {
	// Cancelled on SIGINT or SIGTERM; a running generation stops and reports
	// its partial library.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.RunCLI(ctx, cmd.Root(), os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
