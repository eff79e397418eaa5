package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/testutil"
)

func newRouter(deps *types.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, deps)
	return router
}

func get(t *testing.T, router http.Handler, path string) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestRoot(t *testing.T) {
	tc := &testutil.MockTranscoder{}
	tc.On("Ready").Return(true)
	deps := &types.Dependencies{Transcoder: tc, Build: types.BuildInfo{Version: "1.2.3"}}

	response := get(t, newRouter(deps), "/")

	assert.Equal(t, "Server is running", response["status"])
	assert.Equal(t, "1.2.3", response["version"])
	assert.Equal(t, true, response["transcoder_ready"])
	assert.Len(t, response["endpoints"], len(Endpoints))
	assert.Contains(t, response["endpoints"], "POST /convert-audio")
}

func TestPing(t *testing.T) {
	tests := []struct {
		name     string
		deps     func() *types.Dependencies
		expected bool
	}{
		{
			name: "transcoder ready",
			deps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Ready").Return(true)
				return &types.Dependencies{Transcoder: tc}
			},
			expected: true,
		},
		{
			name: "transcoder not ready",
			deps: func() *types.Dependencies {
				tc := &testutil.MockTranscoder{}
				tc.On("Ready").Return(false)
				return &types.Dependencies{Transcoder: tc}
			},
		},
		{
			name: "no transcoder",
			deps: func() *types.Dependencies { return &types.Dependencies{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := get(t, newRouter(tt.deps()), "/ping")
			assert.Equal(t, "alive", response["status"])
			assert.Equal(t, tt.expected, response["transcoder_ready"])
		})
	}
}

func TestGet(t *testing.T) {
	deps := &types.Dependencies{
		Build: types.BuildInfo{Version: "1.2.3", GitCommit: "abc1234", BuildTime: "2024-01-01T00:00:00Z"},
		Model: "gemini-2.5-flash",
	}

	response := get(t, newRouter(deps), "/version")

	assert.Equal(t, map[string]interface{}{
		"name":       "Media Gateway",
		"version":    "1.2.3",
		"git_commit": "abc1234",
		"build_time": "2024-01-01T00:00:00Z",
		"model":      "gemini-2.5-flash",
	}, response)
}
