package analyze

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/internal/services/inference"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// PostAnalyze classifies an uploaded recording and summarizes the result
// @Summary      Identify a bird from a recording
// @Description  Uploads the recording to BirdNET, then asks the generative model to explain the top predictions
// @Tags         analyze
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Recording (.mp3, .wav or .m4a)"
// @Success      200 {object} types.AnalyzeResponse "Classifier output and summary"
// @Failure      400 {object} types.ErrorResponse "Missing file or unsupported format"
// @Failure      413 {object} types.ErrorResponse "Recording too large"
// @Failure      502 {object} types.ErrorResponse "Empty upstream response"
// @Failure      503 {object} types.ErrorResponse "Upstream unavailable"
// @Failure      504 {object} types.ErrorResponse "Upstream timed out"
// @Router       /analyze [post]
func PostAnalyze(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if stderrors.As(err, &maxErr) {
				types.RespondError(c, errors.Validation("Request body too large").
					WithStatus(http.StatusRequestEntityTooLarge).
					WithDetails(fmt.Sprintf("limit is %d bytes", maxErr.Limit)))
				return
			}
			fh = nil
		}
		if fh != nil {
			types.SetPayloadSize(c, int(fh.Size))
		}

		payload, err := deps.Guard.ValidateAudioUpload(fh)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		ctx := c.Request.Context()
		log := zerolog.Ctx(ctx)
		log.Info().
			Str("filename", payload.Filename).
			Int("size", payload.Size()).
			Str("mime", payload.MIME()).
			Msg("classifying recording")

		classification, err := deps.Classifier.ClassifyAudio(ctx, inference.AudioUpload{
			Filename: payload.Filename,
			MIMEType: payload.MIME(),
			Data:     payload.Data,
		})
		if err != nil {
			types.RespondError(c, err)
			return
		}

		log.Debug().Int("predictions", len(classification.Predictions)).Msg("classification complete")

		summary, err := deps.Generator.Summarize(ctx, deps.Prompts.Analyze, inference.SummaryContext(classification), deps.Params.Analyze)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		types.RespondOK(c, types.AnalyzeResponse{
			Raw:     classification.Raw,
			Summary: summary.Text,
		})
	}
}
