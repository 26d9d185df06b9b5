package http

import (
	"github.com/gin-gonic/gin"

	"github.com/doshub/portal-backend/internal/content"
)

// RegisterRoutes registers the public, unauthenticated listing endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/home", h.Home)

	g.GET("/news", h.ListNews)
	g.GET("/news/:id", pinned(content.News), h.Get)

	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", pinned(content.Events), h.Get)

	g.GET("/services", h.ListServices)
	g.GET("/services/:id", pinned(content.Services), h.Get)
}
