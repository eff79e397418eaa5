package analyze

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// PostDescribeAudio handles audio description requests
// @Summary      Describe a recording
// @Description  Sends the prompt and base64 audio to the generative model and returns its text
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request body types.DescribeAudioRequest true "Prompt and base64 audio"
// @Success      200 {object} types.GenerateResponse "Generated text"
// @Failure      400 {object} types.ErrorResponse "Missing prompt or audio"
// @Failure      413 {object} types.ErrorResponse "Audio too large"
// @Failure      502 {object} types.ErrorResponse "Empty upstream response"
// @Failure      503 {object} types.ErrorResponse "Upstream unavailable"
// @Failure      504 {object} types.ErrorResponse "Upstream timed out"
// @Router       /describe-audio [post]
func PostDescribeAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.DescribeAudioRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if strings.TrimSpace(req.Prompt) == "" || req.AudioBase64 == "" {
			types.RespondError(c, errors.Validation("Prompt or audio not provided"))
			return
		}
		types.SetPayloadSize(c, len(req.AudioBase64))

		payload, err := deps.Guard.ValidateAudioData(req.AudioBase64, req.MimeType)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		zerolog.Ctx(c.Request.Context()).Info().
			Int("encoded_size", payload.EncodedSize).
			Str("mime", payload.MIME()).
			Msg("describing audio")

		media := &inference.InlineData{MimeType: payload.MIME(), Data: payload.Base64()}
		result, err := deps.Generator.GenerateFromMedia(c.Request.Context(), req.Prompt, media, deps.Params.DescribeAudio)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		types.RespondOK(c, types.GenerateResponse{Response: result.Text})
	}
}
