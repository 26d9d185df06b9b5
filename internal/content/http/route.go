package http

import (
	"github.com/gin-gonic/gin"

	"github.com/doshub/portal-backend/internal/content"
)

// RegisterRoutes registers the operator CRUD endpoints under /admin/{collection}.
// Every route requires an authenticated session.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	admin := g.Group("/admin")
	admin.Use(authMiddleware)

	for _, col := range content.Collections {
		group := admin.Group("/"+string(col), WithCollection(col))
		{
			group.GET("", h.List)
			group.POST("", h.Create)
			group.GET("/:id", h.Get)
			group.PATCH("/:id", h.Update)
			group.DELETE("/:id", h.Delete)
		}
	}
}
