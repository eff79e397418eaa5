// Package testutil provides testify mocks of the handler dependencies
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/internal/services/transcoder"
	"github.com/killallgit/media-gateway/pkg/ffmpeg"
)

// MockGenerator is a mock implementation of types.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateFromMedia(ctx context.Context, prompt string, media *inference.InlineData, params inference.Params) (*inference.Result, error) {
	args := m.Called(ctx, prompt, media, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inference.Result), args.Error(1)
}

func (m *MockGenerator) Summarize(ctx context.Context, prompt, contextText string, params inference.Params) (*inference.Result, error) {
	args := m.Called(ctx, prompt, contextText, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inference.Result), args.Error(1)
}

func (m *MockGenerator) Probe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockClassifier is a mock implementation of types.Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) ClassifyAudio(ctx context.Context, upload inference.AudioUpload) (*inference.Result, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inference.Result), args.Error(1)
}

// MockTranscoder is a mock implementation of transcoder.Service
type MockTranscoder struct {
	mock.Mock
}

func (m *MockTranscoder) EnsureReady(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockTranscoder) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTranscoder) ResampleToWAV(ctx context.Context, input []byte) (*ffmpeg.Conversion, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ffmpeg.Conversion), args.Error(1)
}

func (m *MockTranscoder) Status() transcoder.Status {
	args := m.Called()
	return args.Get(0).(transcoder.Status)
}
