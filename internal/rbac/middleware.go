package rbac

import (
	"net/http"

	"itembuildup/internal/auth"
	"itembuildup/internal/users"

	"github.com/gin-gonic/gin"
)

// RequireAnyAccountType allows the caller through if its token carries one of
// the listed account types. Super admins always pass.
// Must run after auth.RequireAccessToken.
func RequireAnyAccountType(allowed ...users.AccountType) gin.HandlerFunc {
	allowedSet := make(map[users.AccountType]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, err := auth.ClaimsFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		if IsSuperAdmin(claims.AccountType) {
			c.Next()
			return
		}
		if _, ok := allowedSet[claims.AccountType]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireAnyAccountType for the user-management routes.
func RequireAdmin() gin.HandlerFunc {
	return RequireAnyAccountType(AdminAccountTypes...)
}
