package analyze

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// PostAnalyzeVideo handles video description requests
// @Summary      Describe a video clip
// @Description  Sends the prompt and a short base64 clip to the generative model and returns its text
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request body types.AnalyzeVideoRequest true "Prompt and base64 video"
// @Success      200 {object} types.GenerateResponse "Generated text"
// @Failure      400 {object} types.ErrorResponse "Missing prompt or video"
// @Failure      413 {object} types.ErrorResponse "Video too large"
// @Failure      502 {object} types.ErrorResponse "Empty upstream response"
// @Failure      503 {object} types.ErrorResponse "Upstream unavailable"
// @Failure      504 {object} types.ErrorResponse "Upstream timed out"
// @Router       /analyze-video [post]
func PostAnalyzeVideo(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AnalyzeVideoRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if strings.TrimSpace(req.Prompt) == "" || req.VideoBase64 == "" {
			types.RespondError(c, errors.Validation("Prompt or video not provided"))
			return
		}
		types.SetPayloadSize(c, len(req.VideoBase64))

		payload, err := deps.Guard.ValidateVideo(req.VideoBase64, req.MimeType)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		zerolog.Ctx(c.Request.Context()).Info().
			Int("encoded_size", payload.EncodedSize).
			Str("mime", payload.MIME()).
			Msg("describing video")

		media := &inference.InlineData{MimeType: payload.MIME(), Data: payload.Base64()}
		result, err := deps.Generator.GenerateFromMedia(c.Request.Context(), req.Prompt, media, deps.Params.Video)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		types.RespondOK(c, types.GenerateResponse{Response: result.Text})
	}
}
