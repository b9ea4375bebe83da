package cmd

import (
	"fmt"
	"os"

	"promptversioning-backend/config"
	"promptversioning-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptversioning",
	Short: "Versioned prompt template service",
	Long: `promptversioning stores prompt templates with {{parameter}} placeholders,
versions every change semantically and reports which prompts a new version breaks.

Commands:
  promptversioning serve     Run the HTTP API (default)
  promptversioning migrate   Create or update the database schema`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return logger.InitLogger(&logger.Config{
			Level:      cfg.LogLevel,
			Filename:   cfg.LogFilename,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level override: debug, info, warn, error")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
