package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/media-gateway/api/types"
)

// Name is the service name reported by GET /version
const Name = "Media Gateway"

// Endpoints lists the public routes advertised by GET /
var Endpoints = []string{
	"GET /",
	"GET /ping",
	"GET /health",
	"GET /version",
	"POST /generate",
	"POST /analyze",
	"POST /analyze-audio",
	"POST /describe-audio",
	"POST /analyze-video",
	"POST /convert-audio",
	"GET /docs/index.html",
}

// Root handles liveness requests on the root path
// @Summary      Service banner
// @Description  Confirms the server is running and lists the available endpoints
// @Tags         version
// @Produce      json
// @Success      200 {object} types.RootResponse "Banner"
// @Router       / [get]
func Root(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.RootResponse{
			Status:          "Server is running",
			Version:         deps.Build.Version,
			Endpoints:       Endpoints,
			TranscoderReady: transcoderReady(deps),
		})
	}
}

// Ping handles keep-alive requests
// @Summary      Ping
// @Description  Cheap keep-alive probe that never calls an upstream
// @Tags         version
// @Produce      json
// @Success      200 {object} types.PingResponse "Alive"
// @Router       /ping [get]
func Ping(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.PingResponse{
			Status:          "alive",
			TranscoderReady: transcoderReady(deps),
		})
	}
}

// Get handles version requests
// @Summary      Version
// @Description  Build information and the configured model
// @Tags         version
// @Produce      json
// @Success      200 {object} types.VersionResponse "Version"
// @Router       /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:      Name,
			BuildInfo: deps.Build,
			Model:     deps.Model,
		})
	}
}

func transcoderReady(deps *types.Dependencies) bool {
	return deps.Transcoder != nil && deps.Transcoder.Ready()
}
