package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/logging"
	"github.com/vancomm/bombtris-server/internal/session"
)

func main() {
	// the terminal belongs to the renderer, so entries only reach LOG_FILE
	log, err := logging.New(config.Development(), os.Getenv("LOG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := session.New(session.WithLogger(log))
	go func() {
		if err := s.Run(ctx); err != nil {
			log.WithError(err).Error("session stopped")
		}
	}()

	program := tea.NewProgram(newModel(ctx, s), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("renderer stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
