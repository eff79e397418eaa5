package health

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// RegisterRoutes registers health routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/health", Get(deps))
}
