package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sierra/core"
)

var rootCmd = &cobra.Command{
	Use:   "sierra",
	Short: "sierra serves ESG ratings and user watchlists over HTTP",
	// Running without a subcommand starts the server.
	RunE: runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and the logger every command needs.
func setup() (*core.Config, *zap.SugaredLogger, error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := core.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return cfg, logger, nil
}
