package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/pkg/errors"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports transcoder readiness and whether the generative model is reachable. Always 200.
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse "Health report"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if deps.Transcoder != nil {
			status := deps.Transcoder.Status()
			response.TranscoderReady = status.Ready
			response.Transcoder = &status
		}

		if deps.Generator != nil {
			response.UpstreamReachable, response.UpstreamError = probeUpstream(c, deps)
		} else {
			response.UpstreamError = "not configured"
		}

		if !response.TranscoderReady || !response.UpstreamReachable {
			response.Status = "degraded"
		}

		c.JSON(http.StatusOK, response)
	}
}

// probeUpstream returns whether the generative model answered, and a client
// safe reason when it did not
func probeUpstream(c *gin.Context, deps *types.Dependencies) (bool, string) {
	err := deps.Generator.Probe(c.Request.Context())
	if err == nil {
		return true, ""
	}

	zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("upstream probe failed")

	appErr, ok := errors.As(err)
	if !ok || appErr.Code == errors.ErrCodeInternal {
		return false, "probe failed"
	}
	if appErr.Details != "" {
		return false, appErr.Message + ": " + appErr.Details
	}
	return false, appErr.Message
}
