package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/media-gateway/api"
	"github.com/killallgit/media-gateway/internal/services/cleanup"
)

type serveOptions struct {
	host      string
	port      int
	bootstrap bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		Long: `Start the media gateway HTTP server with the configured settings.

GEMINI_API_KEY must be set. Unless disabled, ffmpeg is located or
downloaded in the background right after startup.

Example:
  media-gateway serve
  media-gateway serve --port 9090
  media-gateway serve --host 127.0.0.1 --bootstrap-transcoder=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "server host (overrides config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "server port (overrides config)")
	cmd.Flags().BoolVar(&opts.bootstrap, "bootstrap-transcoder", true, "prepare ffmpeg at startup (overrides config)")
	return cmd
}

func runServer(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	// Use flag values when provided
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}
	if cmd.Flags().Changed("bootstrap-transcoder") {
		cfg.Transcoder.Bootstrap = opts.bootstrap
	}

	log := newLogger(cmd, cfg)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc := newTranscoder(cfg, log)
	deps := buildDependencies(cfg, tc, log)
	server := api.NewServer(cfg, deps, log)

	if cfg.Transcoder.Bootstrap {
		go func() {
			if !tc.EnsureReady(ctx) {
				log.Warn().Msg("transcoder unavailable at startup, will retry on demand")
			}
		}()
	}

	if cfg.Transcoder.StaleAfter > 0 {
		cleanup.NewService(cfg.Transcoder.ScratchDir, cfg.Transcoder.StaleAfter, cfg.Transcoder.SweepInterval, log).Start(ctx)
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info().
		Str("addr", server.Addr()).
		Str("model", cfg.Gemini.Model).
		Str("version", Version).
		Msg("media gateway started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server gracefully stopped")
	return nil
}
