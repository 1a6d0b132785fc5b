package auth

import (
	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
)

// Middleware exposes the session's user to handlers.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// Handler copies the session user into the Gin context. It never rejects a
// request; use RequireLogin on routes that need a user.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := m.sessionManager.UserID(c.Request); userID != 0 {
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// RequireLogin aborts with unauthorized when no user is logged in.
// unauthorized is expected to write the response.
func RequireLogin(unauthorized gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if nobody is logged in.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != 0
}
