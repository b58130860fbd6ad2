package middleware

import (
	"net/http"

	"rex-crm-client/internal/errors"

	"github.com/gin-gonic/gin"
)

// SessionChecker reports whether the gateway currently holds a Rex token.
type SessionChecker interface {
	HasToken() bool
}

// RequireSession rejects requests with 401 while the gateway is logged out,
// so they never reach Rex without a token.
func RequireSession(session SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.HasToken() {
			c.Error(errors.NewAppError("no Rex session", errors.MsgNoSession, errors.ErrCodeNoSession, http.StatusUnauthorized, nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
