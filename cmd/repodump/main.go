package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/repodump/internal/cli"
	"github.com/temirov/repodump/internal/utils"
)

// main is the entry point for the repodump command.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	applicationExecutionError := cli.Execute(ctx)
	stop()
	if applicationExecutionError != nil {
		fmt.Fprintf(os.Stderr, utils.ErrorLogFormat+"\n", applicationExecutionError)
		os.Exit(1)
	}
}
