package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func protectedRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireAccessToken(m), func(c *gin.Context) {
		claims, err := ClaimsFrom(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.EmployeeID)
	})
	return r
}

func TestRequireAccessToken_InjectsClaims(t *testing.T) {
	m := newTestManager(t)
	tok, err := m.IssueAccessToken(time.Now(), sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	protectedRouter(m).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "E001" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRequireAccessToken_Rejects(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	refresh, _, err := m.mintRefreshToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	expired, err := m.IssueAccessToken(now.Add(-time.Hour), sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	cfg := testAuthConfig()
	cfg.AccessSecret = "wrong-secret"
	other, _ := NewManager(cfg)
	forged, err := other.IssueAccessToken(now, sampleClaims)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"empty bearer": "Bearer ",
		"refresh":      "Bearer " + refresh,
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + forged,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			protectedRouter(m).ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}
