package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"talent-service/internal/mocks"
	"talent-service/internal/models"
	"talent-service/internal/security"
)

func TestRegisterStoresBcryptHash(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("EmailTaken", mock.Anything, "alice@example.com").Return(false, nil).Once()
	users.On("Create", mock.Anything, "alice@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")) == nil
	}), "Alice").Return(&models.User{ID: 1, Email: "alice@example.com", Name: "Alice"}, nil).Once()

	svc := NewAuthService(users, security.NewTokenIssuer("s", time.Hour))
	user, token, err := svc.Register(context.Background(), "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(1), user.ID)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("EmailTaken", mock.Anything, "alice@example.com").Return(true, nil).Once()

	svc := NewAuthService(users, security.NewTokenIssuer("s", time.Hour))
	_, _, err := svc.Register(context.Background(), "alice@example.com", "secret1", "Alice")
	require.ErrorIs(t, err, ErrEmailTaken)
}
