package main

import (
	"context"
	"os"

	"github.com/yigit/scholarpath/internal/pkg/logger"
	"github.com/yigit/scholarpath/internal/server"
)

// @title ScholarPath API
// @version 1.0
// @description Scholarship discovery, matching and application tracking for students
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@scholarpath.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, with or without the "Bearer " prefix

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Error details are logged within NewServer's setup functions
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
