package convert

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/media"
	"github.com/killallgit/media-gateway/internal/services/transcoder"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// Post handles audio conversion requests
// @Summary      Convert audio to WAV
// @Description  Decodes base64 audio in any format ffmpeg understands and returns 16-bit PCM mono WAV at the configured sample rate
// @Tags         convert
// @Accept       json
// @Produce      json
// @Param        request body types.ConvertAudioRequest true "Base64 audio"
// @Success      200 {object} types.ConvertAudioResponse "Converted audio"
// @Failure      400 {object} types.ErrorResponse "Missing, invalid or undecodable audio"
// @Failure      413 {object} types.ErrorResponse "Audio too large"
// @Failure      503 {object} types.ErrorResponse "Conversion unavailable"
// @Failure      504 {object} types.ErrorResponse "Conversion timed out"
// @Router       /convert-audio [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ConvertAudioRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		types.SetPayloadSize(c, len(req.AudioData))

		payload, err := deps.Guard.ValidateAudioData(req.AudioData, "")
		if err != nil {
			types.RespondError(c, err)
			return
		}

		ctx := c.Request.Context()
		if deps.Transcoder == nil || !deps.Transcoder.EnsureReady(ctx) {
			types.RespondError(c, errors.TranscodeUnavailable(transcoder.ErrNotReady))
			return
		}

		conversion, err := deps.Transcoder.ResampleToWAV(ctx, payload.Data)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		response := types.ConvertAudioResponse{
			Success:       true,
			WAVData:       base64.StdEncoding.EncodeToString(conversion.WAV),
			OriginalSize:  payload.Size(),
			ConvertedSize: len(conversion.WAV),
			SampleRate:    conversion.Format.SampleRate,
			Channels:      conversion.Format.Channels,
			BitDepth:      conversion.Format.BitDepth,
			Filename:      wavFilename(req.Filename),
			Message:       "Audio converted successfully",
		}
		if conversion.Source != nil {
			response.OriginalFormat = conversion.Source.Format
			response.OriginalDuration = conversion.Source.Duration
		}

		zerolog.Ctx(ctx).Info().
			Int("original_size", response.OriginalSize).
			Int("converted_size", response.ConvertedSize).
			Str("original_format", response.OriginalFormat).
			Msg("audio converted")

		types.RespondOK(c, response)
	}
}

// wavFilename swaps the extension of a client filename for .wav
func wavFilename(name string) string {
	name = media.SanitizeFilename(name)
	if name == "" {
		return ""
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "audio"
	}
	return base + ".wav"
}
