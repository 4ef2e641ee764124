package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/auth"
	"github.com/medisecure/medisecure-backend/internal/authctx"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(string) (*auth.Claims, error) {
	return f.claims, f.err
}

func newGateRouter(v TokenVerifier, exempt []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthGate(v, exempt, nil).Handler())
	probe := func(c *gin.Context) {
		if claims, ok := ClaimsFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": ""})
	}
	r.GET("/health", probe)
	r.GET("/appointments", probe)
	r.OPTIONS("/appointments", probe)
	return r
}

func TestAuthGateAttachesIdentity(t *testing.T) {
	v := &fakeVerifier{claims: &auth.Claims{UserID: "u-1", Email: "doc@example.com", Role: "doctor"}}
	r := newGateRouter(v, nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != `{"user_id":"u-1"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestAuthGatePassesAnonymousThrough(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "no header", header: "", err: nil},
		{name: "wrong scheme", header: "Basic Zm9v", err: nil},
		{name: "expired token", header: "Bearer expired", err: auth.ErrTokenExpired},
		{name: "bad signature", header: "Bearer forged", err: auth.ErrBadSignature},
		{name: "garbage token", header: "Bearer not.a.jwt", err: auth.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGateRouter(&fakeVerifier{err: tt.err}, nil)

			req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (gate must not reject)", w.Code)
			}
			if got := w.Body.String(); got != `{"user_id":""}` {
				t.Fatalf("body = %s, want anonymous", got)
			}
		})
	}
}

func TestAuthGateSkipsExemptPaths(t *testing.T) {
	verifierCalled := false
	v := verifierFunc(func(string) (*auth.Claims, error) {
		verifierCalled = true
		return nil, errors.New("boom")
	})
	r := newGateRouter(v, []string{"/health"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if verifierCalled {
		t.Fatal("verifier must not run on exempt paths")
	}
}

func TestAuthGateSkipsPreflight(t *testing.T) {
	verifierCalled := false
	v := verifierFunc(func(string) (*auth.Claims, error) {
		verifierCalled = true
		return nil, errors.New("boom")
	})
	r := newGateRouter(v, nil)

	req := httptest.NewRequest(http.MethodOptions, "/appointments", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if verifierCalled {
		t.Fatal("verifier must not run on preflight")
	}
}

func TestAuthGatePropagatesClaimsOnRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := &fakeVerifier{claims: &auth.Claims{UserID: "u-2", Role: "nurse"}}

	r := gin.New()
	r.Use(NewAuthGate(v, nil, nil).Handler())
	r.GET("/x", func(c *gin.Context) {
		claims, ok := authctx.ClaimsFrom(c.Request.Context())
		if !ok || claims.UserID != "u-2" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("claims not visible on request context, status = %d", w.Code)
	}
}

type verifierFunc func(string) (*auth.Claims, error)

func (f verifierFunc) VerifyAccessToken(tok string) (*auth.Claims, error) { return f(tok) }
