package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers 汇总所有路由需要的 handler。
type Handlers struct {
	Generation *GenerationHandler
	Version    *VersionHandler
	Registry   *RegistryHandler
	Workspace  *WorkspaceHandler
}

// RegisterRoutes 在 r 上注册全部 API 路由。
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/generate", h.Generation.Generate)
		api.GET("/registry", h.Registry.List)

		versions := api.Group("/versions")
		{
			versions.GET("", h.Version.List)
			versions.POST("", h.Version.Create)
			versions.GET("/:id", h.Version.Get)
			versions.GET("/:id/sandbox", h.Version.Sandbox)
		}

		api.GET("/workspace/ws", h.Workspace.Handle)
	}
}
