package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confera/conference-api/internal/domain"
)

type UserRoleFinder interface {
	FindUserByID(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin rejects callers whose user record does not carry the admin
// role. It must run after VerifyJWT.
func RequireAdmin(svc UserRoleFinder) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(ContextKeyUserID)
		if userID == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing authenticated user",
			})
			return
		}

		user, err := svc.FindUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unknown user",
			})
			return
		}

		if user.Role != domain.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "admin access required",
			})
			return
		}

		ctx.Next()
	}
}
