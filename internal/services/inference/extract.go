package inference

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TextStrategy extracts generated text from a raw response body
type TextStrategy struct {
	Name    string
	Extract func(body []byte) string
}

// TextStrategies are tried in order; the first non-blank result wins
var TextStrategies = []TextStrategy{
	{Name: "first_part", Extract: firstPartText},
	{Name: "scan_parts", Extract: scanPartsText},
}

// ExtractText runs TextStrategies against body and returns the text and the
// name of the strategy that found it. Both are empty when nothing matched.
func ExtractText(body []byte) (string, string) {
	for _, strategy := range TextStrategies {
		if text := strategy.Extract(body); text != "" {
			return text, strategy.Name
		}
	}
	return "", ""
}

// firstPartText reads candidates[0].content.parts[0].text
func firstPartText(body []byte) string {
	return nonBlank(gjson.GetBytes(body, "candidates.0.content.parts.0.text"))
}

// scanPartsText walks every part of every candidate
func scanPartsText(body []byte) string {
	var text string
	gjson.GetBytes(body, "candidates").ForEach(func(_, candidate gjson.Result) bool {
		candidate.Get("content.parts").ForEach(func(_, part gjson.Result) bool {
			text = nonBlank(part.Get("text"))
			return text == ""
		})
		return text == ""
	})
	return text
}

func nonBlank(r gjson.Result) string {
	if r.Type != gjson.String || strings.TrimSpace(r.Str) == "" {
		return ""
	}
	return r.Str
}

// upstreamMessage pulls a human readable error out of an error response
func upstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"error.message", "error", "message", "detail"} {
		if msg := nonBlank(gjson.GetBytes(body, path)); msg != "" {
			return msg
		}
	}
	return ""
}

// emptyReason explains why a successful response carried no text
func emptyReason(body []byte) string {
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "prompt blocked: " + reason
	}
	if reason := gjson.GetBytes(body, "candidates.0.finishReason").String(); reason != "" && reason != "STOP" {
		return "finish reason: " + reason
	}
	return ""
}
