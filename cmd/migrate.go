package cmd

import (
	"fmt"

	"promptversioning-backend/internal/database"
	"promptversioning-backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.L().Info("database migrated", zap.String("driver", cfg.DBDriver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
