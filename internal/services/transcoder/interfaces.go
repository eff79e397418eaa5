package transcoder

import (
	"context"

	"github.com/killallgit/media-gateway/pkg/ffmpeg"
)

// Service provides audio conversion backed by an ffmpeg binary that is
// located or downloaded on demand
type Service interface {
	// EnsureReady makes sure a working binary is available. It is safe to
	// call on every request and returns false instead of failing.
	EnsureReady(ctx context.Context) bool

	// Ready reports the current state without side effects
	Ready() bool

	// ResampleToWAV converts arbitrary input audio to mono 16-bit PCM WAV
	// at the configured sample rate
	ResampleToWAV(ctx context.Context, input []byte) (*ffmpeg.Conversion, error)

	// Status returns a snapshot for health reporting
	Status() Status
}

// Source describes where the active binary came from
type Source string

const (
	SourceNone     Source = ""
	SourceSystem   Source = "system"
	SourceScratch  Source = "scratch"
	SourceDownload Source = "download"
)

// Status is a point-in-time view of the transcoder
type Status struct {
	Ready       bool   `json:"ready"`
	Source      Source `json:"source,omitempty"`
	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
	FFprobePath string `json:"ffprobe_path,omitempty"`
	Version     string `json:"version,omitempty"`
	SampleRate  int    `json:"sample_rate"`
	Downloads   int64  `json:"downloads"`
}
