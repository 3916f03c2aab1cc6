package httpapi

import (
	"net/http"
	"strings"

	"itembuildup/internal/rbac"

	"github.com/gin-gonic/gin"
)

// Register wires the /api routes. authMW guards everything outside /api/auth.
// Keep this free of business logic.
func Register(r gin.IRouter, h Handlers, authMW gin.HandlerFunc) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}

	protected := api.Group("")
	protected.Use(authMW)

	usersGroup := protected.Group("/users")
	{
		usersGroup.GET("/get-users", h.GetUsers)
		usersGroup.POST("/update-profile", h.UpdateProfile)
		usersGroup.PUT("/update-user", rbac.RequireAdmin(), h.UpdateUser)
		usersGroup.DELETE("/delete-user/:employee_id", rbac.RequireAdmin(), h.DeleteUser)
	}

	protected.GET("/navigation/get-navigation/:userType", h.GetNavigation)
	protected.GET("/companies/get-companies", h.GetCompanies)

	itemsGroup := protected.Group("/items")
	{
		itemsGroup.GET("/add-item", h.GetDropdownOptions)
		itemsGroup.POST("/create-item", h.CreateItem)
		itemsGroup.GET("/get-items", h.GetItems)
		itemsGroup.PUT("/update-item", h.UpdateItem)
	}
}

// CORS allows the browser app at origin to call the API with credentials,
// which the refresh cookie needs.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reqOrigin := c.GetHeader("Origin"); reqOrigin != "" && strings.EqualFold(reqOrigin, origin) {
			hdr := c.Writer.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Credentials", "true")
			hdr.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			hdr.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
