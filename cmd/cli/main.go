package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pestcrm/internal/buildinfo"
	"github.com/dmitrijs2005/pestcrm/internal/client/cli"
	"github.com/dmitrijs2005/pestcrm/internal/client/config"
	"github.com/dmitrijs2005/pestcrm/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewStderr(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}
