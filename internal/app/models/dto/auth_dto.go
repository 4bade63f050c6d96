package dto

import (
	"time"

	"github.com/yigit/scholarpath/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterRequest represents a user registration request. Admin accounts are only created by the seed.
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email" example:"student@example.com"`
	Password  string          `json:"password" binding:"required,min=8" example:"secret123"`
	FirstName string          `json:"firstName" binding:"required" example:"Abebe"`
	LastName  string          `json:"lastName" binding:"required" example:"Kebede"`
	Role      models.RoleType `json:"role" binding:"required,oneof=student counselor" example:"student"`
}

// VerifyEmailRequest carries an email verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"86400"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID            int64           `json:"id" example:"1"`
	Email         string          `json:"email" example:"student@example.com"`
	FirstName     string          `json:"firstName" example:"Abebe"`
	LastName      string          `json:"lastName" example:"Kebede"`
	Role          models.RoleType `json:"role" example:"student"`
	EmailVerified bool            `json:"emailVerified"`
	LastLoginAt   *time.Time      `json:"lastLoginAt,omitempty"`
}

// NewUserResponse maps a user model to its public representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// MeResponse is the current user with a profile readiness flag
type MeResponse struct {
	User             UserResponse `json:"user"`
	ProfileCompleted bool         `json:"profileCompleted"`
}
