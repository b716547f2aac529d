package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hospicore/biomedtrack/internal/types"
)

const sessionKey = "session"

// AuthMiddleware validates the bearer token and stores the session in the
// request context.
func (a *AuthService) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "falta el header de autorizacion"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "formato de autorizacion invalido"})
			c.Abort()
			return
		}

		session, err := a.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token invalido o expirado"})
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole allows only sessions whose role is in the given set.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "sesion no encontrada"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "rol sin permiso para esta operacion"})
		c.Abort()
	}
}

// SessionFrom extracts the session placed by AuthMiddleware, or nil.
func SessionFrom(c *gin.Context) *Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*Session); ok {
			return session
		}
	}
	return nil
}
