package generate

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// RegisterRoutes registers image generation routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.POST("/generate", Post(deps))
}
