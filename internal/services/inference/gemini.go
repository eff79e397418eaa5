package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/killallgit/media-gateway/pkg/errors"
)

const geminiService = "Gemini"

// maxResponseBody bounds a successful generateContent response
const maxResponseBody = 8 * 1024 * 1024

// GeminiConfig holds configuration for the Gemini client
type GeminiConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	ProbeTimeout time.Duration
	HTTPClient   *http.Client
}

// GeminiClient calls the generateContent API
type GeminiClient struct {
	httpClient   *http.Client
	baseURL      string
	model        string
	apiKey       string
	probeTimeout time.Duration
	log          zerolog.Logger
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(cfg GeminiConfig, log zerolog.Logger) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.HTTPClient == nil {
		// Per-call deadlines come from the request context
		cfg.HTTPClient = &http.Client{}
	}

	return &GeminiClient{
		httpClient:   cfg.HTTPClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		probeTimeout: cfg.ProbeTimeout,
		log:          log.With().Str("upstream", "gemini").Logger(),
	}
}

// GenerateFromMedia sends a prompt with one optional inline media part
func (c *GeminiClient) GenerateFromMedia(ctx context.Context, prompt string, media *InlineData, params Params) (*Result, error) {
	parts := []Part{{Text: prompt}}
	if media != nil {
		parts = append(parts, Part{InlineData: media})
	}
	return c.Generate(ctx, &Request{Contents: []Content{{Role: "user", Parts: parts}}}, params)
}

// Summarize sends prompt and contextText as a single text part
func (c *GeminiClient) Summarize(ctx context.Context, prompt, contextText string, params Params) (*Result, error) {
	text := prompt
	switch {
	case prompt != "" && contextText != "":
		text = prompt + "\n\n" + contextText
	case prompt == "":
		text = contextText
	}
	return c.Generate(ctx, &Request{Contents: []Content{{Role: "user", Parts: []Part{{Text: text}}}}}, params)
}

// Generate sends req once. It never retries.
func (c *GeminiClient) Generate(ctx context.Context, req *Request, params Params) (*Result, error) {
	if req.GenerationConfig == nil {
		req.GenerationConfig = params.generationConfig()
	}

	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("marshal request: %w", err))
	}

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = redact(err, c.apiKey)
		c.log.Warn().Err(err).Dur("latency", time.Since(start)).Msg("generateContent failed")
		return nil, classifyTransportError(ctx, geminiService, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Int("request_bytes", len(body)).
		Dur("latency", time.Since(start)).
		Msg("generateContent response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(geminiService, resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransportError(ctx, geminiService, err)
	}

	return parseGenerateResponse(raw)
}

func parseGenerateResponse(raw []byte) (*Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.UpstreamEmpty(geminiService).WithDetails("response was not valid JSON")
	}

	text, strategy := ExtractText(raw)
	if text == "" {
		e := errors.UpstreamEmpty(geminiService)
		if reason := emptyReason(raw); reason != "" {
			e = e.WithDetails(reason)
		}
		return nil, e
	}

	return &Result{
		Text:         text,
		Raw:          raw,
		Strategy:     strategy,
		FinishReason: gjson.GetBytes(raw, "candidates.0.finishReason").String(),
	}, nil
}

// Probe checks that the model endpoint is reachable with the configured key
func (c *GeminiClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/models/%s?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Internal(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, geminiService, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(geminiService, resp)
	}
	return nil
}

// redact strips the API key from errors that embed the request URL
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
