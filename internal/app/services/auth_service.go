package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/auth"
	"github.com/yigit/scholarpath/internal/pkg/email"
)

// ProfileCompletedThreshold is the completion percentage at which a student profile counts as complete
const ProfileCompletedThreshold = 80

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	profiles   ProfileStore
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	profiles ProfileStore,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		profiles:   profiles,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates a student or counselor account and mails a verification link
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Role != models.RoleStudent && req.Role != models.RoleCounselor {
		return nil, apperrors.NewBadRequestError("role must be student or counselor")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     strings.TrimSpace(req.Email),
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == models.RoleStudent {
		if err := s.profiles.CreateEmpty(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("student profile creation error: %w", err)
		}
	}

	verifyToken, err := s.jwtService.GeneratePurposeToken(user, auth.PurposeVerifyEmail)
	if err != nil {
		return nil, fmt.Errorf("error generating verification token: %w", err)
	}
	if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, verifyToken); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Verification email could not be sent")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.authResponse(user)
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	return s.authResponse(user)
}

// VerifyEmail marks the token owner's email as verified; repeating it is harmless
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidatePurpose(token, auth.PurposeVerifyEmail)
	if err != nil {
		return apperrors.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.users.SetEmailVerified(ctx, user.ID)
}

// ForgotPassword mails a reset link. Unknown addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.jwtService.GeneratePurposeToken(user, auth.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}
	return s.mailer.SendPasswordResetEmail(user.Email, user.FirstName, token)
}

// ResetPassword replaces the password of the reset token's owner
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.ValidatePurpose(token, auth.PurposePasswordReset)
	if err != nil {
		return apperrors.ErrTokenInvalid
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.users.UpdatePassword(ctx, claims.UserID, hashed)
}

// Me returns the current user and, for students, whether the profile is complete enough
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{User: dto.NewUserResponse(user)}
	if user.Role == models.RoleStudent {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			resp.ProfileCompleted = profile.ProfileCompletion >= ProfileCompletedThreshold
		case !errors.Is(err, apperrors.ErrProfileNotFound):
			return nil, err
		}
	}
	return resp, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
