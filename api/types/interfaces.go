package types

import (
	"context"
	"mime/multipart"

	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/internal/services/media"
)

// Generator defines the generative model operations used by handlers
type Generator interface {
	GenerateFromMedia(ctx context.Context, prompt string, media *inference.InlineData, params inference.Params) (*inference.Result, error)
	Summarize(ctx context.Context, prompt, contextText string, params inference.Params) (*inference.Result, error)
	Probe(ctx context.Context) error
}

// Classifier defines the species classification operations used by handlers
type Classifier interface {
	ClassifyAudio(ctx context.Context, upload inference.AudioUpload) (*inference.Result, error)
}

// MediaGuard validates client media before any outbound call
type MediaGuard interface {
	ValidateText(field, value string) error
	ValidateImage(b64 string) (*media.Payload, error)
	ValidateVideo(b64, declaredMIME string) (*media.Payload, error)
	ValidateAudioData(b64, declaredMIME string) (*media.Payload, error)
	ValidateAudioUpload(fh *multipart.FileHeader) (*media.Payload, error)
}
