// cmd/atm/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "atm-ledger/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create and initialize the application
	application := app.NewApplication()
	if err := application.Initialize(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Run the console in a goroutine; reading stdin cannot be interrupted
	done := make(chan error, 1)
	go func() {
		done <- application.Run(ctx)
	}()

	exitCode := 0
	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			application.Logger.Error("Console stopped with error", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout, "\nGoodbye!")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error("Application shutdown failed", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		shutdownCancel()
		stop()
		os.Exit(exitCode)
	}
}
