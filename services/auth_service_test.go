package services

import (
	"context"
	"testing"

	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	t.Run("success normalizes email and assigns player role", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "jane@example.com" && u.Role == models.RolePlayer && u.PasswordHash != ""
		})).Return(nil)

		svc := NewAuthService(userRepo)

		user, err := svc.Register(context.Background(), RegisterInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "+77001234567",
			Email:     "  Jane@Example.COM ",
			Password:  "supersecret",
		})

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
		userRepo.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository))

		user, err := svc.Register(context.Background(), RegisterInput{Password: "short"})

		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Nil(t, user)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrUserEmailConflict)

		svc := NewAuthService(userRepo)

		user, err := svc.Register(context.Background(), RegisterInput{
			Email:    "jane@example.com",
			Password: "supersecret",
		})

		assert.ErrorIs(t, err, ErrUserEmailConflict)
		assert.Nil(t, user)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(&models.User{
			ID:           1,
			Email:        "jane@example.com",
			PasswordHash: string(hash),
			Role:         models.RolePlayer,
		}, nil)

		svc := NewAuthService(userRepo)

		user, err := svc.Login(context.Background(), LoginInput{
			Email:    " Jane@example.com ",
			Password: "supersecret",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "jane@example.com").Return(&models.User{
			PasswordHash: string(hash),
		}, nil)

		svc := NewAuthService(userRepo)

		user, err := svc.Login(context.Background(), LoginInput{
			Email:    "jane@example.com",
			Password: "not-the-password",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrUserNotFound)

		svc := NewAuthService(userRepo)

		user, err := svc.Login(context.Background(), LoginInput{
			Email:    "ghost@example.com",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
	})
}
