package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the session endpoints used by the console.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", authMiddleware, h.Logout)
	}

	// Authenticated Routes
	g.GET("/me", authMiddleware, h.Me)
}
