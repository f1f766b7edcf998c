package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd"
)

func main() {

	// An interrupt stops a wait without touching the remote operation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.New().Run(ctx, os.Args)
	if err == nil {
		return
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprint(os.Stderr, msg+"\n")
	}

	code := 1
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}

	stop()
	os.Exit(code)
}
