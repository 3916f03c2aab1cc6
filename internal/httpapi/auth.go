package httpapi

import (
	"net/http"
	"strings"

	"itembuildup/internal/apperr"
	"itembuildup/internal/audit"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// Login checks credentials and starts a session: the refresh token goes into
// an httpOnly cookie, the access token into the body.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Employee ID is required."})
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), req.EmployeeID, req.Password)
	if err != nil {
		if s := apperr.Status(err); s == http.StatusNotFound || s == http.StatusUnauthorized {
			h.record(c, audit.Event{Type: audit.EventLoginFailed, EmployeeID: req.EmployeeID, Message: apperr.Message(err)})
		}
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, sess.RefreshToken, sess.RefreshExpiresAt)
	c.Set("employee_id", sess.Claims.EmployeeID)
	h.record(c, audit.Event{Type: audit.EventLogin, EmployeeID: sess.Claims.EmployeeID})

	c.JSON(http.StatusOK, gin.H{"accessToken": sess.AccessToken})
}

// Refresh mints a new access token from the refresh cookie.
func (h Handlers) Refresh(c *gin.Context) {
	tok, _ := c.Cookie(RefreshCookieName)

	access, claims, err := h.Auth.Refresh(c.Request.Context(), tok)
	if err != nil {
		if claims.EmployeeID != "" {
			h.record(c, audit.Event{Type: audit.EventRefreshDenied, EmployeeID: claims.EmployeeID, Message: apperr.Message(err)})
		}
		respondError(c, err)
		return
	}

	c.Set("employee_id", claims.EmployeeID)
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

type logoutRequest struct {
	EmployeeID string `json:"employee_id"`
}

// Logout revokes the refresh cookie's token, clears the cookie and marks the
// user OFFLINE. A missing employee_id, or a cookie issued to someone else, is
// rejected before anything changes.
func (h Handlers) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EmployeeID) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Employee ID is required."})
		return
	}
	tok, _ := c.Cookie(RefreshCookieName)

	err := h.Auth.Logout(c.Request.Context(), req.EmployeeID, tok)
	if apperr.Status(err) != http.StatusForbidden {
		h.clearRefreshCookie(c)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Set("employee_id", req.EmployeeID)
	h.record(c, audit.Event{Type: audit.EventLogout, EmployeeID: strings.TrimSpace(req.EmployeeID)})
	c.Status(http.StatusNoContent)
}
