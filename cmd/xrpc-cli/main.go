package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yndnr/xrpc-go/internal/cli/command"
	"github.com/yndnr/xrpc-go/internal/infra/shutdown"
	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: load .env: %v\n", err)
		os.Exit(command.ExitError)
	}

	h := shutdown.NewHandler(shutdownTimeout, logger.Default())
	ctx, cancel := h.NotifyContext(context.Background())
	defer cancel()

	app := command.App(h)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		os.Exit(command.ExitCode(err))
	}
}
