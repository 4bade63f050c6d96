package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yigit/scholarpath/internal/app/models"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Token purposes. Access tokens carry no purpose.
const (
	PurposeAccess        = ""
	PurposeVerifyEmail   = "verify-email"
	PurposePasswordReset = "password-reset"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	VerifyTokenExp time.Duration
	ResetTokenExp  time.Duration
	TokenIssuer    string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	if config.VerifyTokenExp == 0 {
		config.VerifyTokenExp = 24 * time.Hour
	}
	if config.ResetTokenExp == 0 {
		config.ResetTokenExp = time.Hour
	}
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines JWT token content
type Claims struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token and returns it with its lifetime in seconds
func (s *JWTService) GenerateAccessToken(user *models.User) (string, int, error) {
	token, err := s.sign(user, PurposeAccess, s.config.AccessTokenExp)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create access token: %w", err)
	}
	return token, int(s.config.AccessTokenExp.Seconds()), nil
}

// GeneratePurposeToken creates a short-lived token usable only for the given purpose
func (s *JWTService) GeneratePurposeToken(user *models.User, purpose string) (string, error) {
	exp := s.config.VerifyTokenExp
	if purpose == PurposePasswordReset {
		exp = s.config.ResetTokenExp
	}
	return s.sign(user, purpose, exp)
}

func (s *JWTService) sign(user *models.User, purpose string, exp time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    string(user.Role),
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// ValidateToken validates a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	return authHeader, nil
}

// ValidateAndExtractClaims validates an access token and extracts its claims
func (s *JWTService) ValidateAndExtractClaims(tokenString string) (*Claims, error) {
	return s.ValidatePurpose(tokenString, PurposeAccess)
}

// ValidatePurpose validates a token and checks it was issued for the given purpose
func (s *JWTService) ValidatePurpose(tokenString, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 || claims.Email == "" || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
