package inference

import (
	"encoding/json"
	"time"
)

// Request is the generateContent request body
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// Content is one conversation turn
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is either a text part or an inline media part
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64 media embedded in the request body
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerationConfig holds optional sampling parameters
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"`
}

// Params controls a single outbound call
type Params struct {
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
}

// DefaultParams returns conservative parameters for text generation
func DefaultParams() Params {
	return Params{
		Timeout:         30 * time.Second,
		Temperature:     0.1,
		MaxOutputTokens: 800,
	}
}

func (p Params) generationConfig() *GenerationConfig {
	temperature := p.Temperature
	return &GenerationConfig{
		Temperature:     &temperature,
		MaxOutputTokens: p.MaxOutputTokens,
	}
}

// Prediction is one species classification
type Prediction struct {
	Species string  `json:"species"`
	Score   float64 `json:"score"`
}

// Result is the normalized outcome of an upstream call
type Result struct {
	Text        string          `json:"text,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	Predictions []Prediction    `json:"predictions,omitempty"`

	// Strategy names the extraction strategy that produced Text
	Strategy     string `json:"-"`
	FinishReason string `json:"-"`
}

// AudioUpload is an audio file relayed to the classifier
type AudioUpload struct {
	Filename string
	MIMEType string
	Data     []byte
}
