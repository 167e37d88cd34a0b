package main

import (
	"os"

	"github.com/yigit/scholarhub/internal/pkg/logger"
	"github.com/yigit/scholarhub/internal/server"
)

// @title ScholarHub API
// @version 1.0
// @description Scholarship discovery, applications and payments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@scholarhub.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity token, prefixed with Bearer

func main() {
	srv, err := server.NewServer()
	if err != nil {
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
