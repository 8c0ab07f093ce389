package middleware

import (
	infraRepo "github.com/forto/backoffice/internal/infrastructure/repository"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// BranchMiddleware fixes the branch the request operates on. A configured branch
// wins; otherwise the employee's own branch is used.
func BranchMiddleware(fixedBranchID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID := fixedBranchID
		if branchID == 0 {
			if identity, ok := GetIdentity(c); ok {
				branchID = identity.BranchID
			}
		}
		if branchID == 0 {
			response.BadRequest(c, "Branch context required")
			c.Abort()
			return
		}

		ctx := infraRepo.WithBranch(c.Request.Context(), branchID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
