package version

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// RegisterRoutes registers the root, ping and version routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/", Root(deps))
	engine.GET("/ping", Ping(deps))
	engine.GET("/version", Get(deps))
}
