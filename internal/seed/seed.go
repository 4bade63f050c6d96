// Package seed creates the default data the application needs to be usable.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/config"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the subset of the user repository the seed needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

// EnsureAdmin creates the configured admin account unless a user with that email already exists.
// It does nothing when no admin is configured.
func EnsureAdmin(ctx context.Context, users UserStore, admin config.AdminConfig, lgr zerolog.Logger) error {
	if admin.Email == "" {
		lgr.Debug().Msg("No admin configured, skipping admin seed")
		return nil
	}

	existing, err := users.GetByEmail(ctx, admin.Email)
	if err == nil {
		if existing.Role != appModels.RoleAdmin {
			lgr.Warn().Str("email", admin.Email).Str("role", string(existing.Role)).
				Msg("Configured admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := &appModels.User{
		Email:         admin.Email,
		Password:      string(hash),
		FirstName:     admin.FirstName,
		LastName:      admin.LastName,
		Role:          appModels.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := users.Create(ctx, user); err != nil {
		// Another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	lgr.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Default admin created")
	return nil
}
