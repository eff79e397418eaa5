package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// GenerateRequest is the POST /generate body
type GenerateRequest struct {
	Prompt      string `json:"prompt" example:"Describe this image"`
	ImageBase64 string `json:"image_base64" example:"/9j/4AAQSkZJRgABAQ..."`
}

// AnalyzeAudioRequest is the POST /analyze-audio body. BirdNETResults may be
// plain text or any JSON value produced by a previous classification.
type AnalyzeAudioRequest struct {
	Prompt         string          `json:"prompt" example:"Which bird is this?"`
	BirdNETResults json.RawMessage `json:"birdnet_results" swaggertype:"string" example:"0.912 Turdus migratorius"`
}

// ResultsText returns BirdNETResults as prompt text. JSON strings are
// unquoted, other JSON values are kept verbatim.
func (r *AnalyzeAudioRequest) ResultsText() string {
	raw := bytes.TrimSpace(r.BirdNETResults)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	switch string(raw) {
	case "{}", "[]", `""`:
		return ""
	}
	return string(raw)
}

// DescribeAudioRequest is the POST /describe-audio body
type DescribeAudioRequest struct {
	Prompt      string `json:"prompt" example:"What can you hear in this recording?"`
	AudioBase64 string `json:"audio_base64" example:"SUQzBAAAAAAA..."`
	MimeType    string `json:"mime_type,omitempty" example:"audio/mpeg"`
}

// AnalyzeVideoRequest is the POST /analyze-video body
type AnalyzeVideoRequest struct {
	Prompt      string `json:"prompt" example:"Describe what happens in this clip"`
	VideoBase64 string `json:"video_base64" example:"AAAAGGZ0eXBtcDQy..."`
	MimeType    string `json:"mime_type,omitempty" example:"video/mp4"`
}

// ConvertAudioRequest is the POST /convert-audio body
type ConvertAudioRequest struct {
	AudioData string `json:"audio_data" example:"SUQzBAAAAAAA..."`
	Filename  string `json:"filename,omitempty" example:"recording.m4a"`
}
