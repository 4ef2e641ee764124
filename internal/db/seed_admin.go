package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/domain/user"
	"github.com/medisecure/medisecure-backend/internal/security"
)

// EnsureAdminUser creates the bootstrap admin account on first start.
// Both email and password must come from configuration; without them the
// seed is skipped and someone has to provision accounts another way.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	firstName, lastName := splitName(cfg.AdminName)

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         user.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role.String(), u.IsActive, u.CreatedAt, u.UpdatedAt,
	)

	return err
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)

	if full == "" {
		return "System", "Admin"
	}

	first, rest, found := strings.Cut(full, " ")
	if !found {
		return first, ""
	}

	return first, strings.TrimSpace(rest)
}
