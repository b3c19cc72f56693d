package main

import (
	"github.com/spf13/cobra"

	"sierra/core"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ESG, user and saved ticker tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := core.InitDB(cfg)
		if err != nil {
			return err
		}

		if err := core.Migrate(db); err != nil {
			logger.Errorw("Migration failed", "error", err)
			return err
		}

		logger.Info("Tables are up to date")
		return nil
	},
}
