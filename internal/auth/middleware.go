package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
// and rejects tokens that were revoked by a sign-out.
func AuthRequired(jwtManager *JWTManager, revocations RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		tokenStr := parts[1]

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error().Err(err).Msg("revocation lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "session check unavailable",
			})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "session has ended",
			})
			return
		}

		// Store operator info into Gin context for later handlers.
		setClaims(c, claims)

		c.Next()
	}
}
