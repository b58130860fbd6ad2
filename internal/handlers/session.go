package handlers

import (
	"context"
	"net/http"

	"rex-crm-client/internal/errors"
	"rex-crm-client/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Session is the part of *rex.Client the session handler drives.
type Session interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	HasToken() bool
}

type SessionHandler struct {
	session Session
	cache   DescribeCache
}

// NewSessionHandler builds the login/logout handler. cache may be nil.
func NewSessionHandler(session Session, cache DescribeCache) *SessionHandler {
	return &SessionHandler{session: session, cache: cache}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"agent@example.com"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// TokenResponse represents the token response
type TokenResponse struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary Log the gateway in to Rex
// @Description Exchanges Rex credentials for a session token held by the gateway
// @Tags Session
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Rex credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var creds LoginRequest
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.Error(errors.NewAppError(err.Error(), errors.MsgInvalidParameters, errors.ErrCodeInvalidParameters, http.StatusBadRequest, err))
		return
	}

	token, err := h.session.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		c.Error(err)
		return
	}

	// another account may see different fields
	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context()); err != nil {
			logger.GlobalLogger.Errorf("failed to invalidate describe cache: %v", err)
		}
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Logout godoc
// @Summary Log the gateway out of Rex
// @Description Always clears the gateway session, even if Rex cannot be reached
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": h.session.HasToken()})
}
