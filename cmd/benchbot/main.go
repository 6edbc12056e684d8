package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/randalmurphal/benchbot/internal/cli"
	"github.com/randalmurphal/benchbot/internal/logging"
)

// main is the entry point for the benchbot CLI binary.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.ExecuteContext(ctx, os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
