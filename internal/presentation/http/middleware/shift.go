package middleware

import (
	"github.com/forto/backoffice/internal/application/shiftgate"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// RequireShift runs the shift gate as if the caller navigated to page. A redirect
// is answered with 428 and the page the client should open instead.
func RequireShift(gate *shiftgate.Gate, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Check(c.Request.Context(), GetSession(c), page)
		if decision.Allowed() {
			c.Next()
			return
		}

		c.Header("Location", decision.RedirectTo)
		response.Error(c, apperror.ErrShiftRequired.WithDetails(gin.H{
			"redirect_to": decision.RedirectTo,
			"reason":      decision.Reason,
		}))
		c.Abort()
	}
}
