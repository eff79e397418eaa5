package convert

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// RegisterRoutes registers audio conversion routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.POST("/convert-audio", Post(deps))
}
