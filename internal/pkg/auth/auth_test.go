package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/scholarpath/internal/app/models"
)

func testUser() *models.User {
	return &models.User{ID: 7, Email: "student@example.com", Role: models.RoleStudent}
}

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 15 * time.Minute,
		TokenIssuer:    "scholarpath",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWT()
	token, expiresIn, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, 900, expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestJWT()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPurposeTokensAreNotAccessTokens(t *testing.T) {
	svc := newTestJWT()
	reset, err := svc.GeneratePurposeToken(testUser(), PurposePasswordReset)
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(reset)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ValidatePurpose(reset, PurposeVerifyEmail)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.ValidatePurpose(reset, PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, PurposePasswordReset, claims.Purpose)
}

func TestWrongSecretRejected(t *testing.T) {
	token, _, err := newTestJWT().GenerateAccessToken(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
