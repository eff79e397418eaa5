package analyze

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// PostAnalyzeAudio summarizes classifier results produced earlier
// @Summary      Explain classifier results
// @Description  Sends the prompt together with previously obtained BirdNET results to the generative model
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request body types.AnalyzeAudioRequest true "Prompt and BirdNET results"
// @Success      200 {object} types.GenerateResponse "Generated text"
// @Failure      400 {object} types.ErrorResponse "Missing prompt or results"
// @Failure      502 {object} types.ErrorResponse "Empty upstream response"
// @Failure      503 {object} types.ErrorResponse "Upstream unavailable"
// @Failure      504 {object} types.ErrorResponse "Upstream timed out"
// @Router       /analyze-audio [post]
func PostAnalyzeAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AnalyzeAudioRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if err := deps.Guard.ValidateText("Prompt", strings.TrimSpace(req.Prompt)); err != nil {
			types.RespondError(c, err)
			return
		}
		results := req.ResultsText()
		if err := deps.Guard.ValidateText("BirdNET results", results); err != nil {
			types.RespondError(c, err)
			return
		}
		types.SetPayloadSize(c, len(results))

		contextText := deps.Prompts.ResultsHeading + "\n" + results
		result, err := deps.Generator.Summarize(c.Request.Context(), req.Prompt, contextText, deps.Params.Summary)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		types.RespondOK(c, types.GenerateResponse{Response: result.Text})
	}
}
