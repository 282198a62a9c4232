package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthsync/internal/remote"
)

// AuthHandler exposes login and logout on the control surface
type AuthHandler struct {
	session *remote.AuthSession
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(session *remote.AuthSession, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		session: session,
		logger:  logger,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin exchanges credentials for a bearer token with the remote service
func (h *AuthHandler) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if _, err := h.session.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		h.logger.Warn("login failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "LOGIN_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

// PostLogout clears the held credential
func (h *AuthHandler) PostLogout(c *gin.Context) {
	h.session.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
