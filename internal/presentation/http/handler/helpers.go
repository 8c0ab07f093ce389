package handler

import (
	"strconv"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/forto/backoffice/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// GetSession extracts the live session from the Gin context
func GetSession(c *gin.Context) *session.Context {
	return middleware.GetSession(c)
}

// GetIdentity extracts the logged-in employee from the Gin context
func GetIdentity(c *gin.Context) (entity.Identity, bool) {
	return middleware.GetIdentity(c)
}

// requireSession writes a 401 and returns nil when the request carries no session
func requireSession(c *gin.Context) *session.Context {
	sess := GetSession(c)
	if sess == nil || sess.Closed() {
		response.Unauthorized(c, "User not authenticated")
		return nil
	}
	return sess
}

// paramID parses a positive numeric path parameter, writing a 400 on failure
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
