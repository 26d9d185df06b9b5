package auth

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ctxOperatorID = "operatorID"
	ctxEmail      = "operatorEmail"
	ctxTokenID    = "tokenID"
	ctxTokenExp   = "tokenExpiresAt"
)

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ctxOperatorID, claims.OperatorID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ctxTokenExp, claims.ExpiresAt.Time)
	}
}

// GetOperatorID returns the authenticated operator's ID or empty string.
func GetOperatorID(c *gin.Context) string {
	return c.GetString(ctxOperatorID)
}

// GetOperatorEmail returns the authenticated operator's email or empty string.
func GetOperatorEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetTokenID returns the id of the token that authenticated the request.
func GetTokenID(c *gin.Context) string {
	return c.GetString(ctxTokenID)
}

// GetTokenExpiry returns when the request's token expires.
func GetTokenExpiry(c *gin.Context) time.Time {
	return c.GetTime(ctxTokenExp)
}
