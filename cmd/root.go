package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/killallgit/media-gateway/pkg/config"
	"github.com/killallgit/media-gateway/pkg/logger"
)

const rootLong = `Media Gateway - relays images, audio and video to hosted inference APIs

The gateway validates client media, forwards it to a generative model or a
bird species classifier, and returns normalized JSON.

Features:
  • Image, audio and video description via Gemini
  • Bird species identification via BirdNET with a generated explanation
  • Audio conversion to 16-bit mono WAV using a self-provisioned ffmpeg`

// Execute builds the command tree and runs it. Called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns a fresh command tree, so flag state never leaks
// between executions
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "media-gateway",
		Short:        "Media inference gateway",
		Long:         rootLong,
		SilenceUsage: true,
	}

	// Logging flags are shared by every subcommand
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	root.AddCommand(newServeCmd(), newBootstrapCmd(), newVersionCmd())
	return root
}

// loadConfig initializes configuration. Only commands that need it call it,
// so help and version work without a valid environment.
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("error initializing config: %w", err)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Flags set on the command line win
// over the configuration file.
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level := cfg.Logging.Level
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}
	jsonOutput := cfg.Logging.JSON
	if f := cmd.Flag("json-logs"); f != nil && f.Changed {
		jsonOutput = f.Value.String() == "true"
	}
	return logger.NewWithWriter(cmd.ErrOrStderr(), level, jsonOutput)
}
