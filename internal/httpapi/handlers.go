package httpapi

import (
	"net/http"
	"time"

	"itembuildup/internal/apperr"
	"itembuildup/internal/audit"
	"itembuildup/internal/auth"
	"itembuildup/internal/items"
	"itembuildup/internal/lookup"
	"itembuildup/internal/users"
	"itembuildup/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the httpOnly cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// CookieOptions scopes the refresh cookie. Path must cover both the refresh
// and logout routes or logout never sees the token it should revoke.
type CookieOptions struct {
	Path   string
	Domain string
	Secure bool
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth   *auth.Service
	Users  *users.Service
	Lookup *lookup.Service
	Items  *items.Service
	Audit  *audit.Service
	Cookie CookieOptions
}

func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromGin(c).Error("request failed", "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": apperr.Message(err)})
}

func (h Handlers) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, token, maxAge, h.Cookie.Path, h.Cookie.Domain, h.Cookie.Secure, true)
}

func (h Handlers) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, "", -1, h.Cookie.Path, h.Cookie.Domain, h.Cookie.Secure, true)
}

// record appends an audit event. Failures are logged and otherwise ignored.
func (h Handlers) record(c *gin.Context, e audit.Event) {
	if h.Audit == nil {
		return
	}
	e.IPAddress = c.ClientIP()
	if err := h.Audit.Append(c.Request.Context(), e); err != nil {
		logger.FromGin(c).Warn("audit append failed", "type", e.Type, "err", err)
	}
}

// caller returns the verified claims of the authenticated request.
func caller(c *gin.Context) (auth.UserClaims, bool) {
	claims, err := auth.ClaimsFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return auth.UserClaims{}, false
	}
	return claims, true
}
