package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the account table",
	Long:  "Creates the account table and indexes for the configured store driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		// opening a store applies its schema
		_, closeStore, err := openStore(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		closeStore()

		logger.Info("account table ready", zap.String("driver", cfg.StoreDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
