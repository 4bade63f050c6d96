package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/config"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]*appModels.User
	creates int
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, user *appModels.User) error {
	m.creates++
	user.ID = int64(len(m.byEmail) + 1)
	m.byEmail[user.Email] = user
	return nil
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	admin := config.AdminConfig{Email: "admin@example.com", Password: "ChangeMe123!", FirstName: "System", LastName: "Admin"}

	t.Run("creates once", func(t *testing.T) {
		users := &memUsers{byEmail: map[string]*appModels.User{}}
		require.NoError(t, EnsureAdmin(ctx, users, admin, zerolog.Nop()))
		require.NoError(t, EnsureAdmin(ctx, users, admin, zerolog.Nop()))
		assert.Equal(t, 1, users.creates)

		created := users.byEmail["admin@example.com"]
		require.NotNil(t, created)
		assert.Equal(t, appModels.RoleAdmin, created.Role)
		assert.True(t, created.IsActive)
		assert.True(t, created.EmailVerified)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("ChangeMe123!")))
	})

	t.Run("not configured", func(t *testing.T) {
		users := &memUsers{byEmail: map[string]*appModels.User{}}
		require.NoError(t, EnsureAdmin(ctx, users, config.AdminConfig{}, zerolog.Nop()))
		assert.Zero(t, users.creates)
	})
}
