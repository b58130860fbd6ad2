// Command api runs a local HTTP gateway that holds one Rex session and exposes
// the Rex services over a small JSON API.
package main

import (
	"context"
	"os"

	"rex-crm-client/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfiguration()
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Log.Level != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to start: %v", err)
		os.Exit(1)
	}

	app.InitializeServer()
	if err := app.StartServer(); err != nil {
		logger.GlobalLogger.Errorf("%v", err)
		os.Exit(1)
	}
}
