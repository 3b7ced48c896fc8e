package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/i474232898/fishcast/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fishcast",
	Short: "Fishing activity predictions from weather, tide and astronomy",
	Long: `FishCast scores how active fish are likely to be at a place and time,
combining weather, tides, the sun, the moon and solunar feeding windows.`,
	SilenceUsage: true,
}

// Execute runs the root command. It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.AddCommand(serveCmd, scoreCmd, outlookCmd, speciesCmd)
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (*config.AppConfig, *logrus.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
