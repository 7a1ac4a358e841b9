package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	debug      bool

	cfg    *Config
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scanprep",
	Short: "Prepare scanned archive pages for table recognition training",
	Long: `scanprep turns digitized archive volumes into training data.

It downloads scanned page images by cross-referencing an EAD finding aid
with per-volume METS manifests, and converts PAGE XML table annotations
into COCO datasets with derived row and column outlines.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; environment wins over config values.
		godotenv.Load()

		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}

		logger = setupLogger()
		return nil
	},
}

func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
