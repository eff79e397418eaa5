package types

import (
	"time"

	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/internal/services/transcoder"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	Guard      MediaGuard
	Generator  Generator
	Classifier Classifier
	Transcoder transcoder.Service
	Params     EndpointParams
	Prompts    Prompts
	Build      BuildInfo
	Model      string // Generative model name, reported by GET /version
}

// EndpointParams holds the generation parameters of each endpoint
type EndpointParams struct {
	Image         inference.Params
	Summary       inference.Params
	Analyze       inference.Params
	DescribeAudio inference.Params
	Video         inference.Params
}

// DefaultEndpointParams returns per-endpoint timeouts and token ceilings
func DefaultEndpointParams() EndpointParams {
	return EndpointParams{
		Image:         inference.Params{Timeout: 45 * time.Second, Temperature: 0.1, MaxOutputTokens: 1024},
		Summary:       inference.Params{Timeout: 30 * time.Second, Temperature: 0.1, MaxOutputTokens: 800},
		Analyze:       inference.Params{Timeout: 60 * time.Second, Temperature: 0.1, MaxOutputTokens: 1024},
		DescribeAudio: inference.Params{Timeout: 30 * time.Second, Temperature: 0.1, MaxOutputTokens: 1024},
		Video:         inference.Params{Timeout: 60 * time.Second, Temperature: 0.1, MaxOutputTokens: 2048},
	}
}

// Prompts holds server-side prompt text
type Prompts struct {
	// Analyze is sent with classifier output by POST /analyze
	Analyze string
	// ResultsHeading introduces client supplied results in POST /analyze-audio
	ResultsHeading string
}

// DefaultPrompts returns the built-in prompts
func DefaultPrompts() Prompts {
	return Prompts{
		Analyze: "You are an expert ornithologist. Based on the BirdNET result below, briefly and clearly explain to the user: " +
			"1) which bird is most likely, 2) how confident the detection is, 3) a recommendation.",
		ResultsHeading: "BirdNET analysis results:",
	}
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}
