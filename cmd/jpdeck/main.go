package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/jpdeck/cmd/jpdeck/commands"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(commands.ExecuteContext(ctx, os.Args[1:]))
}
