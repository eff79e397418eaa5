package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/media-gateway/api/analyze"
	"github.com/killallgit/media-gateway/api/convert"
	"github.com/killallgit/media-gateway/api/generate"
	"github.com/killallgit/media-gateway/api/health"
	"github.com/killallgit/media-gateway/api/types"
	"github.com/killallgit/media-gateway/api/version"
	_ "github.com/killallgit/media-gateway/docs/swagger"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	version.RegisterRoutes(engine, deps)
	health.RegisterRoutes(engine, deps)

	generate.RegisterRoutes(engine, deps)
	analyze.RegisterRoutes(engine, deps)
	convert.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())
}
