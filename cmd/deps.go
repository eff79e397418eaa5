package cmd

import (
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/internal/services/media"
	"github.com/killallgit/media-gateway/internal/services/transcoder"
	"github.com/killallgit/media-gateway/pkg/config"
)

// newTranscoder builds the transcoder service from configuration
func newTranscoder(cfg *config.Config, log zerolog.Logger) *transcoder.ServiceImpl {
	return transcoder.NewService(transcoder.Config{
		ScratchDir:      cfg.Transcoder.ScratchDir,
		FFmpegPath:      cfg.Transcoder.FFmpegPath,
		FFprobePath:     cfg.Transcoder.FFprobePath,
		DownloadURL:     cfg.Transcoder.DownloadURL,
		DownloadTimeout: cfg.Transcoder.DownloadTimeout,
		MaxDownloadSize: cfg.Transcoder.MaxDownloadSize,
		Timeout:         cfg.Transcoder.Timeout,
		SampleRate:      cfg.Transcoder.SampleRate,
		RetryInterval:   cfg.Transcoder.RetryInterval,
	}, log)
}

// buildDependencies wires the handler dependencies from configuration
func buildDependencies(cfg *config.Config, tc transcoder.Service, log zerolog.Logger) *types.Dependencies {
	return &types.Dependencies{
		Guard: media.NewGuard(media.Limits{
			MaxImageEncoded: cfg.Limits.MaxImageEncoded,
			MaxVideoEncoded: cfg.Limits.MaxVideoEncoded,
			MaxAudioEncoded: cfg.Limits.MaxAudioEncoded,
			MaxAudioUpload:  cfg.Limits.MaxAudioUpload,
		}),
		Generator: inference.NewGeminiClient(inference.GeminiConfig{
			APIKey:       cfg.Gemini.APIKey,
			BaseURL:      cfg.Gemini.BaseURL,
			Model:        cfg.Gemini.Model,
			ProbeTimeout: cfg.Gemini.ProbeTimeout,
		}, log),
		Classifier: inference.NewBirdNETClient(inference.BirdNETConfig{
			URL:     cfg.Classifier.URL,
			Timeout: cfg.Classifier.Timeout,
			TopN:    cfg.Classifier.TopN,
		}, log),
		Transcoder: tc,
		Params:     endpointParams(cfg.Inference),
		Prompts:    types.DefaultPrompts(),
		Build:      buildInfo(),
		Model:      cfg.Gemini.Model,
	}
}

// endpointParams converts configured generation parameters, keeping the
// defaults for anything left unset
func endpointParams(cfg config.InferenceConfig) types.EndpointParams {
	defaults := types.DefaultEndpointParams()
	return types.EndpointParams{
		Image:         toParams(cfg.Image, defaults.Image),
		Summary:       toParams(cfg.Summary, defaults.Summary),
		Analyze:       toParams(cfg.Analyze, defaults.Analyze),
		DescribeAudio: toParams(cfg.DescribeAudio, defaults.DescribeAudio),
		Video:         toParams(cfg.Video, defaults.Video),
	}
}

func toParams(ep config.EndpointConfig, fallback inference.Params) inference.Params {
	params := fallback
	if ep.Timeout > 0 {
		params.Timeout = ep.Timeout
	}
	if ep.Temperature >= 0 {
		params.Temperature = ep.Temperature
	}
	if ep.MaxOutputTokens > 0 {
		params.MaxOutputTokens = ep.MaxOutputTokens
	}
	return params
}
