package main

import (
	"os"

	"github.com/yigit/programhub/internal/pkg/logger"
	"github.com/yigit/programhub/internal/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions log the details; the default logger is configured in init
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
