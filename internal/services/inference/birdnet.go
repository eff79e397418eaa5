package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/killallgit/media-gateway/pkg/errors"
)

const birdnetService = "BirdNET"

// BirdNETConfig holds configuration for the BirdNET client
type BirdNETConfig struct {
	URL        string
	Timeout    time.Duration
	TopN       int
	HTTPClient *http.Client
}

// BirdNETClient uploads audio to the BirdNET species classifier
type BirdNETClient struct {
	httpClient *http.Client
	url        string
	timeout    time.Duration
	topN       int
	log        zerolog.Logger
}

// NewBirdNETClient creates a new BirdNET client
func NewBirdNETClient(cfg BirdNETConfig, log zerolog.Logger) *BirdNETClient {
	if cfg.URL == "" {
		cfg.URL = "https://birdnet.cornell.edu/api/upload"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &BirdNETClient{
		httpClient: cfg.HTTPClient,
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		topN:       cfg.TopN,
		log:        log.With().Str("upstream", "birdnet").Logger(),
	}
}

// ClassifyAudio posts the upload as multipart field "file" and returns the
// raw response together with the top predictions
func (c *BirdNETClient) ClassifyAudio(ctx context.Context, upload AudioUpload) (*Result, error) {
	body, contentType, err := multipartBody(upload)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("build multipart body: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Dur("latency", time.Since(start)).Msg("upload failed")
		return nil, classifyTransportError(ctx, birdnetService, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Str("filename", upload.Filename).
		Int("bytes", len(upload.Data)).
		Dur("latency", time.Since(start)).
		Msg("upload response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(birdnetService, resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransportError(ctx, birdnetService, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.UpstreamEmpty(birdnetService).WithDetails("response was not valid JSON")
	}

	return &Result{
		Raw:         raw,
		Predictions: ParsePredictions(raw, c.topN),
	}, nil
}

func multipartBody(upload AudioUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(upload.Filename)))
	mimeType := upload.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// ParsePredictions reads the "prediction" member, which is either an array
// of {species, score}, an object of those keyed by rank, or a single one.
// The result is sorted by score, highest first, and cut to topN.
func ParsePredictions(raw []byte, topN int) []Prediction {
	node := gjson.GetBytes(raw, "prediction")
	if !node.Exists() {
		node = gjson.GetBytes(raw, "predictions")
	}

	var predictions []Prediction
	collect := func(item gjson.Result) {
		if p, ok := toPrediction(item); ok {
			predictions = append(predictions, p)
		}
	}

	switch {
	case node.IsArray():
		node.ForEach(func(_, item gjson.Result) bool {
			collect(item)
			return true
		})
	case node.IsObject() && speciesOf(node) != "":
		collect(node)
	case node.IsObject():
		node.ForEach(func(_, item gjson.Result) bool {
			collect(item)
			return true
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
	if topN > 0 && len(predictions) > topN {
		predictions = predictions[:topN]
	}
	return predictions
}

func toPrediction(item gjson.Result) (Prediction, bool) {
	if !item.IsObject() {
		return Prediction{}, false
	}
	species := speciesOf(item)
	if species == "" {
		return Prediction{}, false
	}
	score := item.Get("score")
	if !score.Exists() {
		score = item.Get("confidence")
	}
	return Prediction{Species: species, Score: score.Float()}, true
}

func speciesOf(item gjson.Result) string {
	for _, key := range []string{"species", "common_name", "label"} {
		if v := item.Get(key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// SummaryContext renders predictions as text for the summarization prompt.
// Without predictions the raw classifier JSON is used as is.
func SummaryContext(result *Result) string {
	if result == nil {
		return ""
	}
	if len(result.Predictions) == 0 {
		return string(result.Raw)
	}

	lines := make([]string, 0, len(result.Predictions)+1)
	lines = append(lines, "Top predictions:")
	for _, p := range result.Predictions {
		lines = append(lines, fmt.Sprintf("%.3f — %s", p.Score, p.Species))
	}
	return strings.Join(lines, "\n")
}
