// Package bootstrap seeds the initial admin account so a fresh deployment
// has a user able to perform hierarchy administration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// SeedAdmin creates the admin account when it does not exist yet.
// Idempotent: a second startup is a no-op.
func SeedAdmin(ctx context.Context, users ports.UserRepository, username, password string, log zerolog.Logger) error {
	exists, err := users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	now := time.Now().UTC()
	_, err = users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Designation:  "System Administrator",
		Roles:        []domain.Role{domain.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent replica may have won the insert.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Info().Str("username", username).Msg("admin account seeded")
	return nil
}
