package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/auth"
	"github.com/medisecure/medisecure-backend/internal/authctx"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// AuthGate decodes bearer tokens and attaches the resulting identity to the
// request. It never rejects on its own: requests without a valid token pass
// through anonymously, and route-level RBAC decides what they may reach.
type AuthGate struct {
	jwt    TokenVerifier
	exempt []string
	logger *slog.Logger
}

func NewAuthGate(jwt TokenVerifier, exemptPaths []string, logger *slog.Logger) *AuthGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthGate{jwt: jwt, exempt: exemptPaths, logger: logger}
}

func (g *AuthGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			// Preflight never carries credentials; CORS middleware answers it.
			c.Next()
			return
		}

		if g.isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Next()
			return
		}

		claims, err := g.jwt.VerifyAccessToken(raw)
		if err != nil {
			g.logger.DebugContext(c.Request.Context(), "token_rejected",
				"path", c.Request.URL.Path,
				"reason", err.Error(),
			)
			c.Next()
			return
		}

		attachClaims(c, claims)
		c.Next()
	}
}

func (g *AuthGate) isExempt(path string) bool {
	for _, p := range g.exempt {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func attachClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(CtxClaims, claims)
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
	c.Request = c.Request.WithContext(authctx.WithClaims(c.Request.Context(), claims))
}

// Helpers so handlers don't need to know the magic keys.

func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
