package generate

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// Post handles image description requests
// @Summary      Describe an image
// @Description  Sends the prompt and a base64 image to the generative model and returns its text
// @Tags         generate
// @Accept       json
// @Produce      json
// @Param        request body types.GenerateRequest true "Prompt and base64 image"
// @Success      200 {object} types.GenerateResponse "Generated text"
// @Failure      400 {object} types.ErrorResponse "Missing prompt or image"
// @Failure      413 {object} types.ErrorResponse "Image too large"
// @Failure      429 {object} types.ErrorResponse "Upstream rate limit"
// @Failure      502 {object} types.ErrorResponse "Empty upstream response"
// @Failure      503 {object} types.ErrorResponse "Upstream unavailable"
// @Failure      504 {object} types.ErrorResponse "Upstream timed out"
// @Router       /generate [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.GenerateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if strings.TrimSpace(req.Prompt) == "" || req.ImageBase64 == "" {
			types.RespondError(c, errors.Validation("Prompt or image not provided"))
			return
		}
		types.SetPayloadSize(c, len(req.ImageBase64))

		payload, err := deps.Guard.ValidateImage(req.ImageBase64)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		log := zerolog.Ctx(c.Request.Context())
		log.Info().
			Int("encoded_size", payload.EncodedSize).
			Str("mime", payload.MIME()).
			Msg("describing image")

		media := &inference.InlineData{MimeType: payload.MIME(), Data: payload.Base64()}
		result, err := deps.Generator.GenerateFromMedia(c.Request.Context(), req.Prompt, media, deps.Params.Image)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		types.RespondOK(c, types.GenerateResponse{Response: result.Text})
	}
}
