package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/auth"
	"github.com/doshub/portal-backend/internal/operator"
)

type Handler struct {
	service     operator.Service
	jwtManager  *auth.JWTManager
	revocations auth.RevocationStore
}

func NewHandler(service operator.Service, jwtManager *auth.JWTManager, revocations auth.RevocationStore) *Handler {
	return &Handler{
		service:     service,
		jwtManager:  jwtManager,
		revocations: revocations,
	}
}

// Login authenticates an operator using email and password.
// On success, it returns a JWT access token and the operator profile.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	op, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrInvalidCredentials),
			errors.Is(err, operator.ErrNotFound),
			errors.Is(err, operator.ErrInactiveOperator):
			// Do not reveal which condition failed.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			log.Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, claims, err := h.jwtManager.GenerateAccessToken(op.ID, op.Email)
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Operator:    NewOperatorResponse(op),
	})
}

// Logout revokes the token that authenticated the request.
func (h *Handler) Logout(c *gin.Context) {
	tokenID := auth.GetTokenID(c)
	if tokenID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.revocations.Revoke(c.Request.Context(), tokenID, auth.GetTokenExpiry(c)); err != nil {
		log.Error().Err(err).Msg("logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Me retrieves the profile of the currently authenticated operator.
func (h *Handler) Me(c *gin.Context) {
	operatorID := auth.GetOperatorID(c)
	if operatorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	op, err := h.service.GetByID(c.Request.Context(), operatorID)
	if err != nil {
		if errors.Is(err, operator.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "operator not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load operator"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Operator: NewOperatorResponse(op)})
}
