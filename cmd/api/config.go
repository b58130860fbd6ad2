package main

import (
	"os"

	"rex-crm-client/pkg/config"
	"rex-crm-client/pkg/logger"

	"github.com/joho/godotenv"
)

// load environment variables and configuration
func LoadConfiguration() (*config.Config, error) {
	loadEnvironment()

	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		return nil, err
	}
	logger.InitLogger(os.Stdout, cfg.Log.Level)
	return cfg, nil
}

// load environment variables from .env file
func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		logger.GlobalLogger.Printf("No .env file found, relying on system environment variables: %v", err)
	}
}
