package middleware

import (
	"strings"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	infraRepo "github.com/forto/backoffice/internal/infrastructure/repository"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/forto/backoffice/pkg/utils"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey  = "session"
	identityKey = "identity"
)

// AuthMiddleware validates the bearer token and attaches the live session it was issued for
func AuthMiddleware(jwtManager *utils.JWTManager, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// a token outlives its session after logout
		sess, ok := sessions.Get(claims.SessionID())
		if !ok {
			response.Unauthorized(c, "Session has ended")
			c.Abort()
			return
		}
		identity, ok := sess.Identity()
		if !ok || identity.EmployeeID != claims.EmployeeID {
			response.Unauthorized(c, "Session has ended")
			c.Abort()
			return
		}

		sess.Touch()
		c.Set(sessionKey, sess)
		c.Set(identityKey, identity)

		ctx := infraRepo.WithActor(c.Request.Context(), identity.EmployeeID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSession retrieves the session attached by AuthMiddleware
func GetSession(c *gin.Context) *session.Context {
	val, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	sess, _ := val.(*session.Context)
	return sess
}

// GetIdentity retrieves the identity attached by AuthMiddleware
func GetIdentity(c *gin.Context) (entity.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return entity.Identity{}, false
	}
	identity, ok := val.(entity.Identity)
	return identity, ok
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
