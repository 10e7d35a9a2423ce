package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"voiceagent-dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

func performWithRole(t *testing.T, role string, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), "u1", role))
		}
		c.Next()
	})
	r.GET("/x", mw, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequireAnyRole_AllowsListedRole(t *testing.T) {
	w := performWithRole(t, RoleViewer, RequireAnyRole(RoleViewer))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAnyRole_AdminBypasses(t *testing.T) {
	w := performWithRole(t, RoleAdmin, RequireAnyRole(RoleViewer))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestRequireAnyRole_DeniesUnlistedRole(t *testing.T) {
	w := performWithRole(t, RoleViewer, RequireAnyRole(RoleAdmin))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireAnyRole_DeniesMissingIdentity(t *testing.T) {
	w := performWithRole(t, "", RequireAnyRole(RoleViewer))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
