package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"sierra/core"
	"sierra/internal/seed"
	"sierra/models"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load ESG records from a CSV file into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		records, rejected, err := seed.ReadCSV(f, time.Now())
		if err != nil {
			return err
		}
		for _, r := range rejected {
			logger.Warnw("Dropping CSV row", "file", seedFile, "line", r.Line, "reason", r.Reason)
		}

		db, err := core.InitDB(cfg)
		if err != nil {
			return err
		}
		if err := core.Migrate(db); err != nil {
			return err
		}

		summary, err := seed.Import(cmd.Context(), models.NewESGRecordStore(db), records, logger)
		if err != nil {
			logger.Errorw("Seeding failed", "file", seedFile, "inserted", summary.Inserted, "error", err)
			return err
		}

		logger.Infow("Seeded ESG records", "file", seedFile, "read", summary.Read, "rejected", len(rejected), "inserted", summary.Inserted, "skipped", summary.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "CSV file with a header row")
	seedCmd.MarkFlagRequired("file")
}
