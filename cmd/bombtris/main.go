package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/bombtris-server/internal/app"
	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/logging"
	"github.com/vancomm/bombtris-server/migrations"
)

func main() {
	cfg, err := config.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Development, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(log, cfg, migrations.FS)

	if err := a.Start(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
