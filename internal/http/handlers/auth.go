package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/domain/user"
	"github.com/medisecure/medisecure-backend/internal/http/middlewares"
	"github.com/medisecure/medisecure-backend/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email, role, name string) (string, time.Time, error)
	AccessTTL() time.Duration
}

type AuthHandler struct {
	users UserReader
	jwt   TokenIssuer
	cfg   config.Config
}

func NewAuthHandler(users UserReader, jwtManager TokenIssuer, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		cfg:   cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
	}
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// Uniform rejection: never reveal whether the email exists.
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if !foundUser.IsActive {
		RespondUnauthorized(ctx, "account_disabled", "This account has been deactivated.")
		return
	}

	accessToken, _, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Email, foundUser.Role.String(), foundUser.FullName())

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
		"expires_in":   int(h.jwt.AccessTTL().Seconds()),
		"user":         toUserResponse(foundUser),
	})
}

// Logout is stateless: tokens are not tracked server side, so the client
// simply discards its copy. The endpoint exists so clients have a uniform
// session lifecycle to call into.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// Verify echoes the claims attached to the request. Unlike Me it never
// touches storage, making it cheap enough for clients to poll.
func (h *AuthHandler) Verify(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing or invalid access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
		"name":    claims.Name,
	})
}

// Me returns the profile behind the presented token. Useful for clients to
// both validate a stored token and hydrate the signed-in user.
func (h *AuthHandler) Me(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing or invalid access token")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByID(cctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "unauthorized", "Account no longer exists")
			return
		}
		RespondInternal(ctx, "Could not load profile")
		return
	}

	if !foundUser.IsActive {
		RespondUnauthorized(ctx, "account_disabled", "This account has been deactivated.")
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(foundUser))
}
