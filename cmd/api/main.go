package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/config"
	"accessrating-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is for local development; deployed environments set real variables.
	envErr := godotenv.Load()

	// ========================================
	// LOAD CONFIG + LOGGER
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		logger.Init("production")
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.App.Environment)

	if envErr != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("env", cfg.App.Environment).Str("version", cfg.App.Version).Msg("starting")

	Serve(cfg)
}
