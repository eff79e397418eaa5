package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/internal/services/media"
	"github.com/killallgit/media-gateway/internal/testutil"
	"github.com/killallgit/media-gateway/pkg/errors"
)

type fixture struct {
	generator  *testutil.MockGenerator
	classifier *testutil.MockClassifier
	deps       *types.Dependencies
	router     *gin.Engine
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{
		generator:  &testutil.MockGenerator{},
		classifier: &testutil.MockClassifier{},
	}
	f.deps = &types.Dependencies{
		Guard:      media.NewGuard(media.DefaultLimits()),
		Generator:  f.generator,
		Classifier: f.classifier,
		Params:     types.DefaultEndpointParams(),
		Prompts:    types.DefaultPrompts(),
	}
	f.router = gin.New()
	RegisterRoutes(f.router, f.deps)
	return f
}

func (f *fixture) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) postFile(t *testing.T, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestPostAnalyze_Success(t *testing.T) {
	f := newFixture()
	content := append([]byte("ID3"), make([]byte, 64)...)
	raw := json.RawMessage(`{"prediction":[{"species":"Turdus migratorius","score":0.91}]}`)

	f.classifier.On("ClassifyAudio", mock.Anything, inference.AudioUpload{
		Filename: "robin.mp3",
		MIMEType: "audio/mpeg",
		Data:     content,
	}).Return(&inference.Result{
		Raw:         raw,
		Predictions: []inference.Prediction{{Species: "Turdus migratorius", Score: 0.91}},
	}, nil)
	f.generator.On("Summarize", mock.Anything, f.deps.Prompts.Analyze,
		"Top predictions:\n0.910 — Turdus migratorius", f.deps.Params.Analyze).
		Return(&inference.Result{Text: "Most likely an American Robin."}, nil)

	w := f.postFile(t, "file", "robin.mp3", content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decodeBody(t, w)
	assert.Equal(t, "Most likely an American Robin.", response["summary"])
	predictions := response["raw"].(map[string]interface{})["prediction"].([]interface{})
	assert.Len(t, predictions, 1)

	f.classifier.AssertExpectations(t)
	f.generator.AssertExpectations(t)
}

func TestPostAnalyze_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		field          string
		filename       string
		content        []byte
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing file field",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Audio file missing (field name must be 'file')",
		},
		{
			name:           "wrong field name",
			field:          "audio",
			filename:       "robin.mp3",
			content:        []byte("ID3"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Audio file missing (field name must be 'file')",
		},
		{
			name:           "unsupported extension",
			field:          "file",
			filename:       "robin.ogg",
			content:        []byte("OggS"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Unsupported file format: .ogg. Use .mp3, .wav, or .m4a",
		},
		{
			name:           "file over ceiling",
			field:          "file",
			filename:       "robin.wav",
			content:        bytes.Repeat([]byte{0}, 10*1024*1024+1),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedError:  "Audio file too large (>10 MB)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			w := f.postFile(t, tt.field, tt.filename, tt.content)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, decodeBody(t, w)["error"])

			f.classifier.AssertNotCalled(t, "ClassifyAudio", mock.Anything, mock.Anything)
			f.generator.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPostAnalyze_ClassifierFailure(t *testing.T) {
	f := newFixture()
	f.classifier.On("ClassifyAudio", mock.Anything, mock.Anything).
		Return(nil, errors.UpstreamTimeout("BirdNET", context.DeadlineExceeded))

	w := f.postFile(t, "file", "robin.m4a", []byte("audio"))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "BirdNET request timed out", decodeBody(t, w)["error"])

	f.generator.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostAnalyze_SummaryFailure(t *testing.T) {
	f := newFixture()
	f.classifier.On("ClassifyAudio", mock.Anything, mock.Anything).
		Return(&inference.Result{Raw: json.RawMessage(`{}`)}, nil)
	f.generator.On("Summarize", mock.Anything, mock.Anything, "{}", mock.Anything).
		Return(nil, errors.UpstreamEmpty("Gemini"))

	w := f.postFile(t, "file", "robin.m4a", []byte("audio"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Empty response from Gemini", decodeBody(t, w)["error"])
}
