package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/auth"
	"github.com/medisecure/medisecure-backend/internal/domain/user"
)

func newRBACRouter(role string, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if role != "" {
		r.Use(func(c *gin.Context) {
			attachClaims(c, &auth.Claims{UserID: "u-1", Role: role})
			c.Next()
		})
	}
	r.DELETE("/appointments/:id", mw, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		required   []user.Role
		wantStatus int
	}{
		{
			name:       "no identity",
			role:       "",
			required:   []user.Role{user.RoleAdmin, user.RoleDoctor},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "role outside set",
			role:       "nurse",
			required:   []user.Role{user.RoleAdmin, user.RoleDoctor},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role in set",
			role:       "doctor",
			required:   []user.Role{user.RoleAdmin, user.RoleDoctor},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown role denied",
			role:       "superuser",
			required:   []user.Role{user.RoleAdmin, user.RoleDoctor},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "empty set denies everyone",
			role:       "admin",
			required:   nil,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRBACRouter(tt.role, RequireRoles(tt.required...))

			req := httptest.NewRequest(http.MethodDelete, "/appointments/abc", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("anonymous gets 401 with challenge", func(t *testing.T) {
		r := newRBACRouter("", RequireAuthenticated())

		req := httptest.NewRequest(http.MethodDelete, "/appointments/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if w.Header().Get("WWW-Authenticate") == "" {
			t.Fatal("missing WWW-Authenticate header")
		}
	})

	t.Run("any authenticated role passes", func(t *testing.T) {
		r := newRBACRouter("patient", RequireAuthenticated())

		req := httptest.NewRequest(http.MethodDelete, "/appointments/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
	})
}
