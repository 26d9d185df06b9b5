package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/api"
	"github.com/doshub/portal-backend/internal/auth"
	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/operator"
	"github.com/doshub/portal-backend/internal/pkg/cache"
	"github.com/doshub/portal-backend/internal/portal"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	// DBPool backs content and operator storage. Nil selects in-memory repositories.
	DBPool *pgxpool.Pool
	// Cache backs token revocation and listing caches. Nil selects an in-process cache.
	Cache          cache.Cache
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	RequestTimeout time.Duration
	ListCacheTTL   time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router          *gin.Engine
	JWTManager      *auth.JWTManager
	OperatorService operator.Service
	ContentService  content.Service
	PortalService   portal.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store := cfg.Cache
	if store == nil {
		store = cache.NewMemoryCache()
	}
	revocations := auth.NewCacheRevocationStore(store)

	var (
		operatorRepo operator.Repository
		contentRepo  content.Repository
	)
	if cfg.DBPool != nil {
		operatorRepo = operator.NewPgxRepository(cfg.DBPool)
		contentRepo = content.NewPgxRepository(cfg.DBPool)
	} else {
		log.Warn().Msg("no database configured, using in-memory repositories")
		operatorRepo = operator.NewMemoryRepository()
		contentRepo = content.NewMemoryRepository()
	}

	// Operator Module
	operatorService := operator.NewService(operatorRepo, passwordHasher)

	// Content and Portal Modules; content writes invalidate portal listings.
	var portalService portal.Service
	invalidate := func(ctx context.Context, c content.Collection) {
		portalService.Invalidate(ctx, c)
	}
	contentService := content.NewService(contentRepo, cfg.RequestTimeout, invalidate)
	portalService = portal.NewService(contentService, store, cfg.ListCacheTTL)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		OperatorService: operatorService,
		ContentService:  contentService,
		PortalService:   portalService,
		JWTManager:      jwtManager,
		Revocations:     revocations,
		Cache:           store,
	})

	return &Container{
		Router:          router,
		JWTManager:      jwtManager,
		OperatorService: operatorService,
		ContentService:  contentService,
		PortalService:   portalService,
	}
}
