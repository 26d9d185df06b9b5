package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/doshub/portal-backend/internal/auth"
	"github.com/doshub/portal-backend/internal/content"
	contentHttp "github.com/doshub/portal-backend/internal/content/http"
	"github.com/doshub/portal-backend/internal/operator"
	operatorHttp "github.com/doshub/portal-backend/internal/operator/http"
	"github.com/doshub/portal-backend/internal/pkg/cache"
	"github.com/doshub/portal-backend/internal/portal"
	portalHttp "github.com/doshub/portal-backend/internal/portal/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	OperatorService operator.Service
	ContentService  content.Service
	PortalService   portal.Service
	JWTManager      *auth.JWTManager
	Revocations     auth.RevocationStore
	Cache           cache.Cache
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Logs request information through zerolog.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(), Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173", // Portal front end
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", health(cfg.Cache))

	// authMiddleware: Validates the JWT and rejects revoked tokens.
	authMiddleware := auth.AuthRequired(cfg.JWTManager, cfg.Revocations)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	operatorHandler := operatorHttp.NewHandler(cfg.OperatorService, cfg.JWTManager, cfg.Revocations)
	contentHandler := contentHttp.NewHandler(cfg.ContentService)
	portalHandler := portalHttp.NewHandler(cfg.PortalService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		operatorHttp.RegisterRoutes(v1, operatorHandler, authMiddleware)
		contentHttp.RegisterRoutes(v1, contentHandler, authMiddleware)
		portalHttp.RegisterRoutes(v1, portalHandler)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func health(c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c != nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			if err := c.Ping(pingCtx); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "cache": err.Error()})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
