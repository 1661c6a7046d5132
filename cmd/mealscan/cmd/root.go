package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"meal_backend/internal/platform/config"
	"meal_backend/internal/platform/logging"
)

var (
	// Global configuration, loaded before every subcommand.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mealscan",
	Short: "Meal photo food detection tools",
	Long: `Operational tools for the meal detection service.

Examples:
  mealscan detect lunch.jpg --mode secondary-first
  mealscan cache purge
  mealscan token --subject ios-app --ttl 720h`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(".env"); err != nil {
			slog.Debug(".env not found; using system environment variables")
		}

		loader := config.NewLoader()
		if err := loader.Viper().BindPFlag("log_level", cmd.Flag("log-level")); err != nil {
			return err
		}
		cfg, err := loader.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		globalConfig = cfg

		logger, err := logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is search in ., $XDG_CONFIG_HOME/mealscan, /etc/mealscan)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}
