package types

import (
	"encoding/json"

	"github.com/killallgit/media-gateway/internal/services/transcoder"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error" example:"Image too large"`
	Details string `json:"details,omitempty" example:"size 5000000 exceeds limit 4000000"`
}

// GenerateResponse is returned by the single stage generation endpoints
type GenerateResponse struct {
	Response string `json:"response" example:"A robin."`
}

// AnalyzeResponse is returned by the classify-then-summarize flow
type AnalyzeResponse struct {
	Raw     json.RawMessage `json:"raw" swaggertype:"object"`
	Summary string          `json:"summary" example:"This is most likely an American Robin."`
}

// ConvertAudioResponse is returned by POST /convert-audio
type ConvertAudioResponse struct {
	Success          bool    `json:"success" example:"true"`
	WAVData          string  `json:"wav_data"`
	OriginalSize     int     `json:"original_size" example:"48213"`
	ConvertedSize    int     `json:"converted_size" example:"320044"`
	SampleRate       int     `json:"sample_rate" example:"16000"`
	Channels         int     `json:"channels" example:"1"`
	BitDepth         int     `json:"bit_depth" example:"16"`
	OriginalFormat   string  `json:"original_format,omitempty" example:"mov,mp4,m4a,3gp,3g2,mj2"`
	OriginalDuration float64 `json:"original_duration,omitempty" example:"10.03"`
	Filename         string  `json:"filename,omitempty" example:"recording.wav"`
	Message          string  `json:"message" example:"Audio converted successfully"`
}

// PingResponse is returned by GET /ping
type PingResponse struct {
	Status          string `json:"status" example:"alive"`
	TranscoderReady bool   `json:"transcoder_ready"`
}

// RootResponse is returned by GET /
type RootResponse struct {
	Status          string   `json:"status" example:"Server is running"`
	Version         string   `json:"version" example:"1.0.0"`
	Endpoints       []string `json:"endpoints"`
	TranscoderReady bool     `json:"transcoder_ready"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status            string             `json:"status" example:"ok"`
	Timestamp         string             `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	TranscoderReady   bool               `json:"transcoder_ready"`
	UpstreamReachable bool               `json:"upstream_reachable"`
	UpstreamError     string             `json:"upstream_error,omitempty"`
	Transcoder        *transcoder.Status `json:"transcoder,omitempty"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Name string `json:"name" example:"Media Gateway"`
	BuildInfo
	Model string `json:"model,omitempty" example:"gemini-2.5-flash"`
}
