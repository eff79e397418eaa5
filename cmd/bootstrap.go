package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newBootstrapCmd prepares the conversion binary ahead of the first request
func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Locate or download ffmpeg",
		Long: `Locate a system ffmpeg or download the static build into the scratch
directory, then verify that it runs.

Useful in container images and cold-start environments so that the first
conversion request does not pay for the download.`,
		RunE: runBootstrap,
	}
	cmd.Flags().String("scratch-dir", "", "directory for the downloaded binary (overrides config)")
	return cmd
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("scratch-dir"); dir != "" {
		cfg.Transcoder.ScratchDir = dir
	}

	log := newLogger(cmd, cfg)
	tc := newTranscoder(cfg, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !tc.EnsureReady(ctx) {
		return fmt.Errorf("ffmpeg is not available: no system binary and download from %s failed", cfg.Transcoder.DownloadURL)
	}

	status := tc.Status()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:   %s\n", status.Source)
	fmt.Fprintf(out, "ffmpeg:   %s\n", status.FFmpegPath)
	if status.FFprobePath != "" {
		fmt.Fprintf(out, "ffprobe:  %s\n", status.FFprobePath)
	}
	fmt.Fprintf(out, "Version:  %s\n", status.Version)
	return nil
}
