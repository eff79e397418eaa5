package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/transcoder"
	"github.com/killallgit/media-gateway/internal/testutil"
	"github.com/killallgit/media-gateway/pkg/errors"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	readyStatus := transcoder.Status{Ready: true, Source: transcoder.SourceSystem, FFmpegPath: "/usr/bin/ffmpeg", SampleRate: 16000}

	tests := []struct {
		name          string
		setupDeps     func() *types.Dependencies
		expectedBody  map[string]interface{}
		expectedError string
	}{
		{
			name: "everything ready",
			setupDeps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Status").Return(readyStatus)
				gen := &testutil.MockGenerator{}
				gen.On("Probe", mock.Anything).Return(nil)
				return &types.Dependencies{Transcoder: tc, Generator: gen}
			},
			expectedBody: map[string]interface{}{
				"status":             "ok",
				"transcoder_ready":   true,
				"upstream_reachable": true,
			},
		},
		{
			name: "upstream rejects key",
			setupDeps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Status").Return(readyStatus)
				gen := &testutil.MockGenerator{}
				gen.On("Probe", mock.Anything).Return(errors.UpstreamHTTP("Gemini", http.StatusForbidden, "API key not valid"))
				return &types.Dependencies{Transcoder: tc, Generator: gen}
			},
			expectedBody: map[string]interface{}{
				"status":             "degraded",
				"transcoder_ready":   true,
				"upstream_reachable": false,
			},
			expectedError: "Gemini API error: API key not valid",
		},
		{
			name: "internal probe error is not leaked",
			setupDeps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Status").Return(readyStatus)
				gen := &testutil.MockGenerator{}
				gen.On("Probe", mock.Anything).Return(fmt.Errorf("secret detail"))
				return &types.Dependencies{Transcoder: tc, Generator: gen}
			},
			expectedBody: map[string]interface{}{
				"status":             "degraded",
				"upstream_reachable": false,
			},
			expectedError: "probe failed",
		},
		{
			name: "transcoder not ready",
			setupDeps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Status").Return(transcoder.Status{Source: transcoder.SourceNone})
				gen := &testutil.MockGenerator{}
				gen.On("Probe", mock.Anything).Return(nil)
				return &types.Dependencies{Transcoder: tc, Generator: gen}
			},
			expectedBody: map[string]interface{}{
				"status":             "degraded",
				"transcoder_ready":   false,
				"upstream_reachable": true,
			},
		},
		{
			name: "nothing configured",
			setupDeps: func() *types.Dependencies {
				return &types.Dependencies{}
			},
			expectedBody: map[string]interface{}{
				"status":             "degraded",
				"transcoder_ready":   false,
				"upstream_reachable": false,
			},
			expectedError: "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(context.Background())

			handler := Get(tt.setupDeps())

			// Execute
			handler(c)

			// Assert
			assert.Equal(t, http.StatusOK, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			for key, expected := range tt.expectedBody {
				assert.Equal(t, expected, response[key], "Key: %s", key)
			}
			assert.NotEmpty(t, response["timestamp"])
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["upstream_error"])
			} else {
				assert.NotContains(t, response, "upstream_error")
			}
		})
	}
}

func TestGet_TranscoderDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tc := &testutil.MockTranscoder{}
	tc.On("Status").Return(transcoder.Status{
		Ready:      true,
		Source:     transcoder.SourceDownload,
		FFmpegPath: "/tmp/ffmpeg/ffmpeg",
		Version:    "ffmpeg version 7.0",
		SampleRate: 16000,
		Downloads:  1,
	})
	gen := &testutil.MockGenerator{}
	gen.On("Probe", mock.Anything).Return(nil)

	router := gin.New()
	RegisterRoutes(router, &types.Dependencies{Transcoder: tc, Generator: gen})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Transcoder)
	assert.Equal(t, transcoder.SourceDownload, response.Transcoder.Source)
	assert.Equal(t, "/tmp/ffmpeg/ffmpeg", response.Transcoder.FFmpegPath)
	assert.Equal(t, int64(1), response.Transcoder.Downloads)
}
