package analyze

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// RegisterRoutes registers the audio and video analysis routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.POST("/analyze", PostAnalyze(deps))
	engine.POST("/analyze-audio", PostAnalyzeAudio(deps))
	engine.POST("/describe-audio", PostDescribeAudio(deps))
	engine.POST("/analyze-video", PostAnalyzeVideo(deps))
}
